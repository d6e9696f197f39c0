package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	applog "cofrinho/internal/log"
	"cofrinho/internal/profile"
	sheetsmem "cofrinho/internal/sheets/memory"
	"cofrinho/internal/store"
	"cofrinho/internal/store/memory"

	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type fixture struct {
	worker   *Worker
	store    *memory.Store
	exporter *sheetsmem.Store
}

func newFixture(withExporter bool) fixture {
	st := memory.New()
	f := fixture{store: st}
	deps := Deps{
		Profiles:     profile.NewService(st, nil, clock),
		Goals:        st,
		Transactions: st,
		Clock:        clock,
		Logger:       applog.New(applog.Config{Output: &bytes.Buffer{}}),
	}
	if withExporter {
		f.exporter = sheetsmem.New()
		deps.Exporter = f.exporter
	}
	f.worker = New(deps)
	return f
}

func event(t *testing.T, typ events.Type, userID string) events.Event {
	t.Helper()
	e, err := events.New(typ, userID, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestQuizCompletedPromotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	_ = f.store.CreateProfile(ctx, core.Profile{ID: "ana", Points: 220, Level: core.DefaultLevel})

	if err := f.worker.Handle(ctx, event(t, events.QuizCompleted, "ana")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	p, _ := f.store.GetProfile(ctx, "ana")
	if p.Level != "Intermediário" {
		t.Errorf("level = %q, want Intermediário", p.Level)
	}
}

func TestMissingProfileIsDropped(t *testing.T) {
	f := newFixture(false)
	if err := f.worker.Handle(context.Background(), event(t, events.QuizCompleted, "ghost")); err != nil {
		t.Errorf("Handle() error = %v, want nil so the message is not requeued", err)
	}
}

func TestGoalEventsExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	_ = f.store.InsertGoal(ctx, core.Goal{
		ID: "g1", UserID: "ana", Name: "Bicicleta",
		Target: decimal.NewFromInt(800), Current: decimal.NewFromInt(200), CreatedAt: now,
	})

	if err := f.worker.Handle(ctx, event(t, events.GoalUpdated, "ana")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	rows := f.exporter.Rows(sheetsmem.GoalsSheet)
	if len(rows) != 2 || rows[1][0] != "ana" || rows[1][1] != "Bicicleta" {
		t.Errorf("goal rows = %v", rows)
	}
}

func TestWeekSavedExportsRealWeeksOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	if err := f.worker.Handle(ctx, event(t, events.WeekSaved, "ana")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rows := f.exporter.Rows(sheetsmem.WeeksSheet); len(rows) != 1 {
		t.Errorf("illustrative weeks exported: %v", rows)
	}

	_ = f.store.InsertTransactions(ctx, []core.Transaction{{
		ID: "t1", UserID: "ana", Category: core.VariableExpense, Weekday: core.Monday,
		WeekStart: core.NewDate(2025, 3, 10), Amount: decimal.NewFromInt(42), CreatedAt: now,
	}})
	if err := f.worker.Handle(ctx, event(t, events.WeekSaved, "ana")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	rows := f.exporter.Rows(sheetsmem.WeeksSheet)
	if len(rows) != 2 || rows[1][2] != "2025-03-10" || rows[1][3] != "42.00" {
		t.Errorf("week rows = %v", rows)
	}
}

type failingGoals struct{ store.GoalStore }

func (failingGoals) ListGoals(context.Context, string) ([]core.Goal, error) {
	return nil, errors.New("connection reset")
}

func TestTransientErrorsRequeue(t *testing.T) {
	f := newFixture(true)
	f.worker.goals = failingGoals{}
	if err := f.worker.Handle(context.Background(), event(t, events.GoalCreated, "ana")); err == nil {
		t.Error("Handle() error = nil, want the store error so the message is requeued")
	}
}

func TestUnknownEventsAreAcked(t *testing.T) {
	f := newFixture(false)
	if err := f.worker.Handle(context.Background(), event(t, events.ProfileUpdated, "ana")); err != nil {
		t.Errorf("Handle() error = %v", err)
	}
}
