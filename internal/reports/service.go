package reports

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cofrinho/internal/cache"
	"cofrinho/internal/store"

	"golang.org/x/sync/singleflight"
)

// Service builds reports from the store, caching one per user until the
// user's ledger changes or the cache TTL passes. Concurrent requests for the
// same user share one computation.
type Service struct {
	store        store.TransactionStore
	cache        cache.Cache[Report]
	group        singleflight.Group
	queryTimeout time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

// defaultQueryTimeout bounds the shared store query, which outlives its first caller.
const defaultQueryTimeout = 10 * time.Second

func NewService(st store.TransactionStore, c cache.Cache[Report]) *Service {
	return &Service{
		store:        st,
		cache:        c,
		queryTimeout: defaultQueryTimeout,
		generations:  make(map[string]uint64),
	}
}

func cacheKey(userID string) string {
	return "reports:" + userID
}

func (s *Service) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

func (s *Service) Report(ctx context.Context, userID string) (Report, error) {
	key := cacheKey(userID)
	if s.cache != nil {
		if r, ok := s.cache.Get(key); ok {
			return r, nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		gen := s.generation(userID)

		// Waiters share this query, so one caller leaving must not cancel it.
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
		defer cancel()

		txs, err := s.store.ListTransactions(qctx, userID)
		if err != nil {
			return Report{}, fmt.Errorf("list transactions: %w", err)
		}
		r := Build(txs)
		if s.cache != nil {
			s.mu.Lock()
			// A save that landed during the query makes r stale.
			if s.generations[userID] == gen {
				s.cache.Set(key, r)
			}
			s.mu.Unlock()
		}
		return r, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Report{}, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Report computation shared", "user_id", userID)
		}
		return res.Val.(Report), nil
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

// Invalidate drops the cached report of userID. A computation already in
// flight still answers its callers but no longer fills the cache.
func (s *Service) Invalidate(userID string) {
	key := cacheKey(userID)
	s.mu.Lock()
	s.generations[userID]++
	if s.cache != nil {
		s.cache.Delete(key)
	}
	s.mu.Unlock()
	s.group.Forget(key)
}
