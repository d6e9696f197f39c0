// Package goals tracks named savings goals and their deposits and withdrawals.
package goals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrGoalNotFound = errors.New("goal not found")

type Service struct {
	store     store.GoalStore
	publisher events.Publisher
	clock     core.Clock
}

func NewService(st store.GoalStore, pub events.Publisher, clock core.Clock) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &Service{store: st, publisher: pub, clock: clock}
}

// List returns the user's goals, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]core.Goal, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Create stores a new goal with nothing saved yet.
func (s *Service) Create(ctx context.Context, userID, name string, target decimal.Decimal, deadline *core.Date) (core.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Goal{}, core.ErrEmptyName
	}
	if !target.IsPositive() {
		return core.Goal{}, core.ErrInvalidAmount
	}

	g := core.Goal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Target:    target.Round(2),
		Current:   decimal.Zero,
		Deadline:  deadline,
		CreatedAt: s.clock(),
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.store.InsertGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	events.Emit(ctx, s.publisher, events.GoalCreated, userID, events.GoalPayload{Goal: g})
	return g, nil
}

// Deposit adds amount to the goal. There is no upper bound.
func (s *Service) Deposit(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.Goal, error) {
	if !amount.IsPositive() {
		return core.Goal{}, core.ErrInvalidAmount
	}
	return s.adjust(ctx, userID, goalID, amount)
}

// Withdraw removes amount from the goal, stopping at zero.
func (s *Service) Withdraw(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.Goal, error) {
	if !amount.IsPositive() {
		return core.Goal{}, core.ErrInvalidAmount
	}
	return s.adjust(ctx, userID, goalID, amount.Neg())
}

func (s *Service) adjust(ctx context.Context, userID, goalID string, delta decimal.Decimal) (core.Goal, error) {
	g, err := s.store.GetGoal(ctx, userID, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return core.Goal{}, ErrGoalNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	wasAchieved := g.Achieved
	g.Current = g.Current.Add(delta.Round(2))
	if g.Current.IsNegative() {
		g.Current = decimal.Zero
	}
	g.Achieved = g.Current.GreaterThanOrEqual(g.Target)

	if err := s.store.UpdateGoal(ctx, g); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Goal{}, ErrGoalNotFound
		}
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	events.Emit(ctx, s.publisher, events.GoalUpdated, userID, events.GoalPayload{Goal: g})
	if g.Achieved && !wasAchieved {
		events.Emit(ctx, s.publisher, events.GoalAchieved, userID, events.GoalPayload{Goal: g})
	}
	return g, nil
}

type Summary struct {
	Count       int             `json:"count"`
	TotalSaved  decimal.Decimal `json:"total_saved"`
	TotalTarget decimal.Decimal `json:"total_target"`
	Achieved    int             `json:"achieved"`
}

func Summarize(goals []core.Goal) Summary {
	s := Summary{Count: len(goals), TotalSaved: decimal.Zero, TotalTarget: decimal.Zero}
	for _, g := range goals {
		s.TotalSaved = s.TotalSaved.Add(g.Current)
		s.TotalTarget = s.TotalTarget.Add(g.Target)
		if g.Current.GreaterThanOrEqual(g.Target) {
			s.Achieved++
		}
	}
	return s
}

// DaysRemaining is the signed calendar-day distance from today to deadline.
// Negative means overdue.
func DaysRemaining(deadline, today core.Date) int {
	return today.DaysUntil(deadline)
}

// Progress is current/target as a percentage. A zero target yields +Inf, or
// NaN when nothing was saved either.
func Progress(current, target decimal.Decimal) float64 {
	c := current.InexactFloat64()
	t := target.InexactFloat64()
	return c / t * 100
}

// Bar caps a progress percentage at 100 for display.
func Bar(progress float64) float64 {
	return math.Min(progress, 100)
}

// View is a goal with its derived display figures.
type View struct {
	core.Goal
	// Progress and Bar are nil when not finite.
	Progress      *float64 `json:"progress"`
	Bar           *float64 `json:"bar"`
	DaysRemaining *int     `json:"days_remaining,omitempty"`
}

func NewView(g core.Goal, today core.Date) View {
	p := Progress(g.Current, g.Target)
	v := View{Goal: g, Progress: finite(p), Bar: finite(Bar(p))}
	if g.Deadline != nil {
		d := DaysRemaining(*g.Deadline, today)
		v.DaysRemaining = &d
	}
	return v
}

func Views(goals []core.Goal, today core.Date) []View {
	out := make([]View, 0, len(goals))
	for _, g := range goals {
		out = append(out, NewView(g, today))
	}
	return out
}

func finite(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}
