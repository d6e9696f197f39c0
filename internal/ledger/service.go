// Package ledger implements the weekly transaction ledger: a per-category,
// per-weekday grid of amounts partitioned by the Monday of the current week.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope selects what a save deletes before inserting the active category.
type Scope string

const (
	// ScopeWeek deletes every category of the week. Other tabs' rows are lost
	// unless they are saved again.
	ScopeWeek Scope = "week"
	// ScopeCategory deletes only the active category's rows.
	ScopeCategory Scope = "category"
)

// Invalidator is told when a user's transaction history changed.
type Invalidator interface {
	Invalidate(userID string)
}

type Service struct {
	store       store.TransactionStore
	publisher   events.Publisher
	clock       core.Clock
	scope       Scope
	invalidator Invalidator
}

type Option func(*Service)

func WithClock(c core.Clock) Option { return func(s *Service) { s.clock = c } }

func WithScope(scope Scope) Option { return func(s *Service) { s.scope = scope } }

func WithInvalidator(i Invalidator) Option { return func(s *Service) { s.invalidator = i } }

func NewService(st store.TransactionStore, pub events.Publisher, opts ...Option) *Service {
	s := &Service{
		store:     st,
		publisher: pub,
		clock:     core.SystemClock,
		scope:     ScopeWeek,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	return s
}

func (s *Service) Scope() Scope { return s.scope }

// CurrentWeek is the partition key for "now".
func (s *Service) CurrentWeek() core.Date {
	return core.WeekStart(s.clock())
}

// Load fetches the current week of userID. Cells without a row stay empty.
func (s *Service) Load(ctx context.Context, userID string) (Week, error) {
	start := s.CurrentWeek()
	txs, err := s.store.ListWeek(ctx, userID, start)
	if err != nil {
		return Week{}, fmt.Errorf("load week %s: %w", start, err)
	}
	return fromTransactions(start, txs), nil
}

type SaveResult struct {
	WeekStart core.Date       `json:"week_start"`
	Category  core.Category   `json:"category"`
	Inserted  int             `json:"inserted"`
	Total     decimal.Decimal `json:"total"`
	// Discarded lists the other categories whose stored rows this save removed.
	Discarded []core.Category `json:"discarded,omitempty"`
}

// Save replaces the stored rows of the current week with the active
// category's positive entries. The partition is recomputed from the clock, not
// taken from week.WeekStart. Delete and insert are separate store calls: an
// insert failure leaves the week deleted.
func (s *Service) Save(ctx context.Context, userID string, week Week, active core.Category) (SaveResult, error) {
	if userID == "" {
		return SaveResult{}, core.ErrEmptyUser
	}
	if !active.IsValid() {
		return SaveResult{}, fmt.Errorf("%w: %q", core.ErrInvalidCategory, active)
	}

	start := s.CurrentWeek()
	cells := week.Cells(active)

	result := SaveResult{WeekStart: start, Category: active, Total: decimal.Zero}

	switch s.scope {
	case ScopeCategory:
		if err := s.store.DeleteWeekCategory(ctx, userID, start, active); err != nil {
			return SaveResult{}, fmt.Errorf("delete %s rows of week %s: %w", active, start, err)
		}
	default:
		stored, err := s.store.ListWeek(ctx, userID, start)
		if err != nil {
			return SaveResult{}, fmt.Errorf("list week %s: %w", start, err)
		}
		result.Discarded = otherCategories(stored, active)
		if err := s.store.DeleteWeek(ctx, userID, start); err != nil {
			return SaveResult{}, fmt.Errorf("delete week %s: %w", start, err)
		}
		if len(result.Discarded) > 0 {
			slog.WarnContext(ctx, "Week save discarded other categories",
				"user_id", userID,
				"week_start", start.String(),
				"category", active,
				"discarded", result.Discarded)
		}
	}

	// The week changed on the store even if the insert below fails.
	if s.invalidator != nil {
		defer s.invalidator.Invalidate(userID)
	}

	if len(cells) > 0 {
		now := s.clock()
		txs := make([]core.Transaction, 0, len(cells))
		for _, c := range cells {
			txs = append(txs, core.Transaction{
				ID:        uuid.NewString(),
				UserID:    userID,
				Category:  active,
				Weekday:   c.Weekday,
				WeekStart: start,
				Amount:    c.Amount,
				CreatedAt: now,
			})
			result.Total = result.Total.Add(c.Amount)
		}
		if err := s.store.InsertTransactions(ctx, txs); err != nil {
			return SaveResult{}, fmt.Errorf("insert %s rows of week %s: %w", active, start, err)
		}
	}
	result.Inserted = len(cells)

	events.Emit(ctx, s.publisher, events.WeekSaved, userID, events.WeekSavedPayload{
		WeekStart: start,
		Category:  active,
		Count:     result.Inserted,
		Total:     result.Total,
		Discarded: result.Discarded,
	})

	return result, nil
}

// otherCategories lists, in display order, the categories of txs other than active.
func otherCategories(txs []core.Transaction, active core.Category) []core.Category {
	seen := make(map[core.Category]bool, 3)
	for _, t := range txs {
		seen[t.Category] = true
	}
	var out []core.Category
	for _, c := range core.Categories() {
		if c != active && seen[c] {
			out = append(out, c)
		}
	}
	return out
}
