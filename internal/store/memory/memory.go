package memory

import (
	"context"
	"sort"
	"sync"

	"cofrinho/internal/core"
	"cofrinho/internal/store"
)

// Store keeps every entity in process memory. It backs local development and tests.
type Store struct {
	mu       sync.Mutex
	profiles map[string]core.Profile
	txs      []core.Transaction
	goals    []core.Goal
	results  []core.QuizResult
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{profiles: map[string]core.Profile{}}
}

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateProfile(_ context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; ok {
		return nil
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return store.ErrNotFound
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) ListWeek(_ context.Context, userID string, weekStart core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.UserID == userID && t.WeekStart.Equal(weekStart.Time) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart.Time)
	})
	return out, nil
}

func (s *Store) DeleteWeek(_ context.Context, userID string, weekStart core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = filter(s.txs, func(t core.Transaction) bool {
		return !(t.UserID == userID && t.WeekStart.Equal(weekStart.Time))
	})
	return nil
}

func (s *Store) DeleteWeekCategory(_ context.Context, userID string, weekStart core.Date, category core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = filter(s.txs, func(t core.Transaction) bool {
		return !(t.UserID == userID && t.WeekStart.Equal(weekStart.Time) && t.Category == category)
	})
	return nil
}

// InsertTransactions is all-or-nothing: one invalid row rejects the batch.
func (s *Store) InsertTransactions(_ context.Context, txs []core.Transaction) error {
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, txs...)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, userID, goalID string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == goalID && g.UserID == userID {
			return g, nil
		}
	}
	return core.Goal{}, store.ErrNotFound
}

func (s *Store) InsertGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == g.ID && s.goals[i].UserID == g.UserID {
			s.goals[i] = g
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) InsertQuizResult(_ context.Context, r core.QuizResult) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *Store) ListQuizResults(_ context.Context, userID string) ([]core.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.QuizResult
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func filter(in []core.Transaction, keep func(core.Transaction) bool) []core.Transaction {
	out := in[:0]
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
