package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"
	"cofrinho/internal/store/memory"

	"github.com/shopspring/decimal"
)

// Wednesday 2025-03-05; the week starts Monday 2025-03-03.
var wednesday = time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)

type recordingPublisher struct{ events []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

type invalidations []string

func (i *invalidations) Invalidate(userID string) { *i = append(*i, userID) }

// failingStore wraps the memory store and fails the configured calls.
type failingStore struct {
	store.TransactionStore
	failList   bool
	failDelete bool
	failInsert bool
	inserted   int
}

func (f *failingStore) ListWeek(ctx context.Context, userID string, weekStart core.Date) ([]core.Transaction, error) {
	if f.failList {
		return nil, errors.New("list refused")
	}
	return f.TransactionStore.ListWeek(ctx, userID, weekStart)
}

func (f *failingStore) DeleteWeek(ctx context.Context, userID string, weekStart core.Date) error {
	if f.failDelete {
		return errors.New("delete refused")
	}
	return f.TransactionStore.DeleteWeek(ctx, userID, weekStart)
}

func (f *failingStore) InsertTransactions(ctx context.Context, txs []core.Transaction) error {
	if f.failInsert {
		return errors.New("insert refused")
	}
	f.inserted += len(txs)
	return f.TransactionStore.InsertTransactions(ctx, txs)
}

func newService(st store.TransactionStore, opts ...Option) (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	opts = append([]Option{WithClock(func() time.Time { return wednesday })}, opts...)
	return NewService(st, pub, opts...), pub
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(memory.New())

	w, err := svc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if w.WeekStart.String() != "2025-03-03" {
		t.Fatalf("WeekStart = %s, want 2025-03-03", w.WeekStart)
	}

	_ = w.Edit(core.FixedExpense, core.Monday, "120")
	_ = w.Edit(core.FixedExpense, core.Friday, "35,90")
	_ = w.Edit(core.FixedExpense, core.Saturday, "0")

	res, err := svc.Save(ctx, "u1", w, core.FixedExpense)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.Inserted != 2 || !res.Total.Equal(decimal.RequireFromString("155.9")) {
		t.Errorf("Save() = %+v", res)
	}

	reloaded, err := svc.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, d := range core.Weekdays() {
		want := core.AmountOrZero(w.Value(core.FixedExpense, d))
		got := core.AmountOrZero(reloaded.Value(core.FixedExpense, d))
		if !got.Equal(want) {
			t.Errorf("%s: reloaded %s, saved %s", d, got, want)
		}
	}
	if reloaded.Value(core.FixedExpense, core.Saturday) != "" {
		t.Error("zero entry should not be persisted")
	}

	if len(pub.events) != 1 || pub.events[0].Type != events.WeekSaved {
		t.Fatalf("events = %+v, want one week_saved", pub.events)
	}
}

func TestSaveWeekScopeWipesOtherCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(memory.New())

	w, _ := svc.Load(ctx, "u1")
	_ = w.Edit(core.Investment, core.Monday, "200")
	if _, err := svc.Save(ctx, "u1", w, core.Investment); err != nil {
		t.Fatalf("Save(investment) error = %v", err)
	}

	_ = w.Edit(core.FixedExpense, core.Tuesday, "50")
	res, err := svc.Save(ctx, "u1", w, core.FixedExpense)
	if err != nil {
		t.Fatalf("Save(fixed) error = %v", err)
	}
	if len(res.Discarded) != 1 || res.Discarded[0] != core.Investment {
		t.Errorf("Discarded = %v, want [investment]", res.Discarded)
	}

	reloaded, _ := svc.Load(ctx, "u1")
	if !reloaded.Total(core.Investment).IsZero() {
		t.Error("week scope save should remove the investment rows")
	}
	if !reloaded.Total(core.FixedExpense).Equal(decimal.NewFromInt(50)) {
		t.Error("fixed expense rows should be stored")
	}
}

func TestSaveWeekScopeReportsStoredCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(memory.New())

	inv := NewWeek(core.NewDate(2025, 3, 3))
	_ = inv.Edit(core.Investment, core.Monday, "200")
	_ = inv.Edit(core.VariableExpense, core.Monday, "15")
	if _, err := svc.Save(ctx, "u1", inv, core.Investment); err != nil {
		t.Fatalf("Save(investment) error = %v", err)
	}

	// A client that only sends its active tab.
	fixed := NewWeek(core.NewDate(2025, 3, 3))
	_ = fixed.Edit(core.FixedExpense, core.Tuesday, "50")
	res, err := svc.Save(ctx, "u1", fixed, core.FixedExpense)
	if err != nil {
		t.Fatalf("Save(fixed) error = %v", err)
	}
	if len(res.Discarded) != 1 || res.Discarded[0] != core.Investment {
		t.Errorf("Discarded = %v, want [investment]", res.Discarded)
	}
}

func TestSaveCategoryScopeKeepsOtherCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(memory.New(), WithScope(ScopeCategory))

	w, _ := svc.Load(ctx, "u1")
	_ = w.Edit(core.Investment, core.Monday, "200")
	_ = w.Edit(core.FixedExpense, core.Tuesday, "50")
	if _, err := svc.Save(ctx, "u1", w, core.Investment); err != nil {
		t.Fatalf("Save(investment) error = %v", err)
	}
	res, err := svc.Save(ctx, "u1", w, core.FixedExpense)
	if err != nil {
		t.Fatalf("Save(fixed) error = %v", err)
	}
	if len(res.Discarded) != 0 {
		t.Errorf("Discarded = %v, want none", res.Discarded)
	}

	reloaded, _ := svc.Load(ctx, "u1")
	if !reloaded.Total(core.Investment).Equal(decimal.NewFromInt(200)) {
		t.Error("category scope must keep other categories")
	}
}

func TestSaveWithNoEntriesStillDeletes(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{TransactionStore: memory.New()}
	svc, _ := newService(st)

	w, _ := svc.Load(ctx, "u1")
	_ = w.Edit(core.VariableExpense, core.Monday, "10")
	if _, err := svc.Save(ctx, "u1", w, core.VariableExpense); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	w.Reset(core.VariableExpense)
	res, err := svc.Save(ctx, "u1", w, core.VariableExpense)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.Inserted != 0 || st.inserted != 1 {
		t.Errorf("Inserted = %d, store inserts = %d", res.Inserted, st.inserted)
	}
	reloaded, _ := svc.Load(ctx, "u1")
	if !reloaded.Total(core.VariableExpense).IsZero() {
		t.Error("empty save should clear the week")
	}
}

func TestSaveFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("delete failure inserts nothing", func(t *testing.T) {
		st := &failingStore{TransactionStore: memory.New(), failDelete: true}
		inv := &invalidations{}
		svc, pub := newService(st, WithInvalidator(inv))
		w := NewWeek(svc.CurrentWeek())
		_ = w.Edit(core.FixedExpense, core.Monday, "10")

		if _, err := svc.Save(ctx, "u1", w, core.FixedExpense); err == nil {
			t.Fatal("Save() error = nil, want delete failure")
		}
		if st.inserted != 0 || len(pub.events) != 0 || len(*inv) != 0 {
			t.Errorf("side effects after failed delete: inserted=%d events=%d invalidations=%d", st.inserted, len(pub.events), len(*inv))
		}
	})

	t.Run("reading the stored week fails before deleting", func(t *testing.T) {
		mem := memory.New()
		seed, _ := newService(mem)
		w := NewWeek(seed.CurrentWeek())
		_ = w.Edit(core.Investment, core.Monday, "10")
		if _, err := seed.Save(ctx, "u1", w, core.Investment); err != nil {
			t.Fatalf("seed Save() error = %v", err)
		}

		svc, _ := newService(&failingStore{TransactionStore: mem, failList: true})
		if _, err := svc.Save(ctx, "u1", NewWeek(svc.CurrentWeek()), core.FixedExpense); err == nil {
			t.Fatal("Save() error = nil, want list failure")
		}
		if txs, _ := mem.ListWeek(ctx, "u1", svc.CurrentWeek()); len(txs) != 1 {
			t.Errorf("stored rows = %d, want the seeded row untouched", len(txs))
		}
	})

	t.Run("insert failure surfaces", func(t *testing.T) {
		st := &failingStore{TransactionStore: memory.New(), failInsert: true}
		inv := &invalidations{}
		svc, pub := newService(st, WithInvalidator(inv))
		w := NewWeek(svc.CurrentWeek())
		_ = w.Edit(core.FixedExpense, core.Monday, "10")

		if _, err := svc.Save(ctx, "u1", w, core.FixedExpense); err == nil {
			t.Fatal("Save() error = nil, want insert failure")
		}
		if len(pub.events) != 0 {
			t.Error("no event should be published for a failed save")
		}
		if len(*inv) != 1 {
			t.Errorf("invalidations = %v, want one: the week was already deleted", *inv)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		svc, _ := newService(memory.New())
		if _, err := svc.Save(ctx, "u1", NewWeek(svc.CurrentWeek()), "food"); !errors.Is(err, core.ErrInvalidCategory) {
			t.Errorf("Save() error = %v, want ErrInvalidCategory", err)
		}
	})
}

func TestSaveUsesClockNotLoadedWeek(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	now := wednesday
	svc := NewService(st, nil, WithClock(func() time.Time { return now }))

	w, _ := svc.Load(ctx, "u1")
	_ = w.Edit(core.FixedExpense, core.Monday, "10")

	// The week rolls over between load and save.
	now = now.AddDate(0, 0, 7)
	res, err := svc.Save(ctx, "u1", w, core.FixedExpense)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.WeekStart.String() != "2025-03-10" {
		t.Errorf("WeekStart = %s, want 2025-03-10", res.WeekStart)
	}
	old, _ := st.ListWeek(ctx, "u1", core.NewDate(2025, 3, 3))
	if len(old) != 0 {
		t.Error("save should land in the new week's partition")
	}
}

func TestSaveInvalidatesReports(t *testing.T) {
	inv := &invalidations{}
	svc, _ := newService(memory.New(), WithInvalidator(inv))
	w := NewWeek(svc.CurrentWeek())
	_ = w.Edit(core.Investment, core.Monday, "1")

	if _, err := svc.Save(context.Background(), "u1", w, core.Investment); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(*inv) != 1 || (*inv)[0] != "u1" {
		t.Errorf("invalidations = %v", *inv)
	}
}
