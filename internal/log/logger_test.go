package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf, Component: ComponentLedger})

	logger.Info("saved", FieldUserID, "u1")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"ledger"`) || !strings.Contains(out, `"user_id":"u1"`) {
		t.Errorf("missing fields in %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("Component() = %q, want unknown", got.Component())
	}

	logger := New(DefaultConfig())
	ctx := NewContext(context.Background(), logger.WithComponent(ComponentQuiz))
	if got := FromContext(ctx); got.Component() != ComponentQuiz {
		t.Errorf("Component() = %q, want %q", got.Component(), ComponentQuiz)
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf}))

	r := httptest.NewRequest("GET", "/api/goals", nil)
	sl.LogHTTPEnd(context.Background(), r, 500, 12, "10.0.0.1")
	sl.LogError(context.Background(), "boom", errors.New("db down"), ComponentStorage, OpRead, nil)

	out := buf.String()
	if strings.Count(out, `"level":"ERROR"`) != 2 {
		t.Errorf("expected two error lines, got %s", out)
	}
	if !strings.Contains(out, `"error":"db down"`) {
		t.Errorf("error field missing: %s", out)
	}
}
