package quiz

import (
	"errors"
	"testing"
)

func correctAnswers() []int {
	var out []int
	for _, q := range Questions() {
		out = append(out, q.Correct)
	}
	return out
}

func TestQuestionSet(t *testing.T) {
	qs := Questions()
	if len(qs) != 5 {
		t.Fatalf("len(Questions()) = %d, want 5", len(qs))
	}
	wantCorrect := []int{1, 1, 1, 2, 2}
	for i, q := range qs {
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		if q.Correct != wantCorrect[i] {
			t.Errorf("question %d correct = %d, want %d", i, q.Correct, wantCorrect[i])
		}
	}
}

func TestEngineAdvanceWithoutSelection(t *testing.T) {
	e := NewEngine(Questions())
	if err := e.Advance(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Advance() error = %v, want ErrNoSelection", err)
	}
	if e.Index() != 0 || e.Score() != 0 || e.Finished() {
		t.Errorf("state changed after rejected advance: index=%d score=%d", e.Index(), e.Score())
	}
}

func TestEngineScoresAtAdvance(t *testing.T) {
	e := NewEngine(Questions())

	if err := e.Select(1); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if e.Score() != 0 {
		t.Error("selection alone must not score")
	}
	if err := e.Select(0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	_ = e.Select(1)
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if e.Score() != 1 || e.Index() != 1 {
		t.Errorf("score=%d index=%d, want 1 and 1", e.Score(), e.Index())
	}

	// Selection does not carry over to the next question.
	if err := e.Advance(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Advance() error = %v, want ErrNoSelection", err)
	}
}

func TestEngineSelectOutOfRange(t *testing.T) {
	e := NewEngine(Questions())
	for _, opt := range []int{-1, 4, 99} {
		if err := e.Select(opt); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Select(%d) error = %v, want ErrInvalidOption", opt, err)
		}
	}
}

func TestEngineFinishes(t *testing.T) {
	e := NewEngine(Questions())
	for _, a := range correctAnswers() {
		_ = e.Select(a)
		if err := e.Advance(); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
	}
	if !e.Finished() || e.Score() != 5 {
		t.Fatalf("finished=%v score=%d, want finished with 5", e.Finished(), e.Score())
	}
	if _, err := e.Current(); !errors.Is(err, ErrFinished) {
		t.Errorf("Current() error = %v, want ErrFinished", err)
	}
	if err := e.Select(0); !errors.Is(err, ErrFinished) {
		t.Errorf("Select() error = %v, want ErrFinished", err)
	}
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name      string
		answers   []int
		wantScore int
		wantErr   error
	}{
		{"all correct", []int{1, 1, 1, 2, 2}, 5, nil},
		{"all wrong", []int{0, 0, 0, 0, 0}, 0, nil},
		{"three right", []int{1, 1, 1, 0, 0}, 3, nil},
		{"missing answer", []int{1, 1, 1, 2}, 0, ErrNoSelection},
		{"explicit no selection", []int{1, -1, 1, 2, 2}, 0, ErrNoSelection},
		{"invalid option", []int{1, 1, 7, 2, 2}, 0, ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Replay(Questions(), tt.answers)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Replay() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Replay() error = %v", err)
			}
			if e.Score() != tt.wantScore {
				t.Errorf("Score() = %d, want %d", e.Score(), tt.wantScore)
			}
		})
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "🎉 Excelente desempenho!"},
		{80, "🎉 Excelente desempenho!"},
		{79.9, "👍 Bom trabalho!"},
		{60, "👍 Bom trabalho!"},
		{59, "Continue estudando para melhorar!"},
		{0, "Continue estudando para melhorar!"},
	}
	for _, tt := range tests {
		if got := Band(tt.pct); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
