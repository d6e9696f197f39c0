package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"
	"cofrinho/internal/store/memory"
)

type recordingPublisher struct{ events []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

type failingProfiles struct {
	store.ProfileStore
}

func (failingProfiles) UpdateProfile(context.Context, core.Profile) error {
	return errors.New("profile store down")
}

func setup(t *testing.T) (*Service, *memory.Store, *recordingPublisher) {
	t.Helper()
	st := memory.New()
	if err := st.CreateProfile(context.Background(), core.Profile{ID: "u1", Points: 40, Level: core.DefaultLevel}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	pub := &recordingPublisher{}
	clock := func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }
	return NewService(st, st, pub, clock), st, pub
}

func TestSubmitPerfectScore(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := setup(t)

	out, err := svc.Submit(ctx, "u1", "", correctAnswers())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if out.Score != 5 || out.Total != 5 || out.Awarded != 100 || out.Points != 140 {
		t.Errorf("Submit() = %+v", out)
	}
	if out.Percentage != 100 || out.Message != "🎉 Excelente desempenho!" {
		t.Errorf("percentage=%v message=%q", out.Percentage, out.Message)
	}

	results, _ := st.ListQuizResults(ctx, "u1")
	if len(results) != 1 || results[0].Score != 5 || results[0].Total != 5 || results[0].ContentType != DefaultContentType {
		t.Errorf("results = %+v", results)
	}
	p, _ := st.GetProfile(ctx, "u1")
	if p.Points != 140 {
		t.Errorf("profile points = %d, want 140", p.Points)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.QuizCompleted {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestSubmitKeepsContentType(t *testing.T) {
	svc, st, _ := setup(t)
	if _, err := svc.Submit(context.Background(), "u1", "investimentos", []int{0, 1, 1, 2, 0}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	results, _ := st.ListQuizResults(context.Background(), "u1")
	if results[0].ContentType != "investimentos" || results[0].Score != 3 {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSubmitMissingAnswerWritesNothing(t *testing.T) {
	svc, st, pub := setup(t)
	if _, err := svc.Submit(context.Background(), "u1", "", []int{1, 1}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Submit() error = %v, want ErrNoSelection", err)
	}
	results, _ := st.ListQuizResults(context.Background(), "u1")
	if len(results) != 0 || len(pub.events) != 0 {
		t.Error("an incomplete quiz must not be recorded")
	}
}

func TestCompleteRequiresFinishedEngine(t *testing.T) {
	svc, _, _ := setup(t)
	if _, err := svc.Complete(context.Background(), "u1", "", NewEngine(Questions())); !errors.Is(err, ErrNotFinished) {
		t.Errorf("Complete() error = %v, want ErrNotFinished", err)
	}
}

func TestCompleteSurfacesPointsFailure(t *testing.T) {
	st := memory.New()
	_ = st.CreateProfile(context.Background(), core.Profile{ID: "u1"})
	pub := &recordingPublisher{}
	svc := NewService(st, failingProfiles{st}, pub, nil)

	if _, err := svc.Submit(context.Background(), "u1", "", correctAnswers()); err == nil {
		t.Fatal("Submit() error = nil, want points failure")
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published when the award fails")
	}
}

func TestHistory(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, _ = svc.Submit(ctx, "u1", "", correctAnswers())
	_, _ = svc.Submit(ctx, "u1", "", []int{0, 0, 0, 0, 0})

	history, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Errorf("len(History()) = %d, want 2", len(history))
	}
}
