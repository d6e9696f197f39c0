package reports

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cofrinho/internal/cache"
	"cofrinho/internal/core"
	"cofrinho/internal/store"
	"cofrinho/internal/store/memory"

	"github.com/shopspring/decimal"
)

type countingStore struct {
	store.TransactionStore
	calls atomic.Int32
	gate  chan struct{}
}

func (c *countingStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.TransactionStore.ListTransactions(ctx, userID)
}

func TestReportIsCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	st := &countingStore{TransactionStore: mem}
	svc := NewService(st, cache.NewLRUCache[Report](10, time.Hour))

	r, err := svc.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !r.Illustrative {
		t.Error("empty history should be illustrative")
	}
	_, _ = svc.Report(ctx, "u1")
	if st.calls.Load() != 1 {
		t.Errorf("store calls = %d, want 1 (cached)", st.calls.Load())
	}

	_ = mem.InsertTransactions(ctx, []core.Transaction{{
		ID: "t", UserID: "u1", Category: core.FixedExpense, Weekday: core.Monday,
		WeekStart: core.NewDate(2025, 3, 3), Amount: decimal.NewFromInt(10),
	}})
	svc.Invalidate("u1")

	r, _ = svc.Report(ctx, "u1")
	if r.Illustrative || st.calls.Load() != 2 {
		t.Errorf("after invalidation: illustrative=%v calls=%d", r.Illustrative, st.calls.Load())
	}
}

func TestConcurrentReportsCollapse(t *testing.T) {
	st := &countingStore{TransactionStore: memory.New(), gate: make(chan struct{})}
	svc := NewService(st, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Report(context.Background(), "u1"); err != nil {
				t.Errorf("Report() error = %v", err)
			}
		}()
	}

	// Let the goroutines pile up on the in-flight call before releasing it.
	deadline := time.Now().Add(2 * time.Second)
	for st.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(st.gate)
	wg.Wait()

	if n := st.calls.Load(); n >= 5 {
		t.Errorf("store calls = %d, want fewer than one per caller", n)
	}
}

// stallingStore reads the history, then holds the first call until released.
type stallingStore struct {
	store.TransactionStore
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStallingStore(inner store.TransactionStore) *stallingStore {
	return &stallingStore{TransactionStore: inner, read: make(chan struct{}), release: make(chan struct{})}
}

func (s *stallingStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := s.TransactionStore.ListTransactions(ctx, userID)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return txs, err
}

func TestInvalidateDuringComputationKeepsStaleReportOutOfCache(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	st := newStallingStore(mem)
	svc := NewService(st, cache.NewLRUCache[Report](10, time.Hour))

	done := make(chan Report, 1)
	go func() {
		r, err := svc.Report(ctx, "u1")
		if err != nil {
			t.Errorf("Report() error = %v", err)
		}
		done <- r
	}()

	<-st.read
	_ = mem.InsertTransactions(ctx, []core.Transaction{{
		ID: "t", UserID: "u1", Category: core.VariableExpense, Weekday: core.Tuesday,
		WeekStart: core.NewDate(2025, 3, 3), Amount: decimal.NewFromInt(40),
	}})
	svc.Invalidate("u1")
	close(st.release)

	if first := <-done; !first.Illustrative {
		t.Fatal("the in-flight computation read the empty history")
	}

	r, err := svc.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if r.Illustrative || !r.Stats.Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("report after save: illustrative=%v total=%s, want real data", r.Illustrative, r.Stats.Total)
	}
}

func TestCancelledCallerDoesNotFailSharedComputation(t *testing.T) {
	mem := memory.New()
	_ = mem.InsertTransactions(context.Background(), []core.Transaction{{
		ID: "t", UserID: "u1", Category: core.FixedExpense, Weekday: core.Monday,
		WeekStart: core.NewDate(2025, 3, 3), Amount: decimal.NewFromInt(10),
	}})
	st := newStallingStore(mem)
	svc := NewService(st, nil)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Report(first, "u1")
		firstErr <- err
	}()
	<-st.read

	second := make(chan error, 1)
	go func() {
		_, err := svc.Report(context.Background(), "u1")
		second <- err
	}()

	cancel()
	if err := <-firstErr; err != context.Canceled {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}
	close(st.release)

	if err := <-second; err != nil {
		t.Errorf("waiting caller error = %v, want the shared result", err)
	}
}
