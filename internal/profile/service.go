// Package profile owns the user profile: contact details, monthly salary,
// points and the level label derived from them.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"

	"github.com/shopspring/decimal"
)

type Service struct {
	store     store.ProfileStore
	publisher events.Publisher
	clock     core.Clock
}

func NewService(st store.ProfileStore, pub events.Publisher, clock core.Clock) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &Service{store: st, publisher: pub, clock: clock}
}

// Ensure returns the user's profile, creating it on first sight.
func (s *Service) Ensure(ctx context.Context, userID, name string) (core.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	now := s.clock()
	p = core.Profile{
		ID:            userID,
		Name:          strings.TrimSpace(name),
		Level:         core.DefaultLevel,
		MonthlySalary: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		// Another request may have created it first.
		if existing, getErr := s.store.GetProfile(ctx, userID); getErr == nil {
			return existing, nil
		}
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID string) (core.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Edit carries the user-editable fields. Points are editable directly.
type Edit struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	Country       string          `json:"country"`
	Points        int             `json:"points"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
}

func (s *Service) Update(ctx context.Context, userID string, e Edit) (core.Profile, error) {
	if e.Points < 0 {
		return core.Profile{}, core.ErrNegativePoints
	}
	if e.MonthlySalary.IsNegative() {
		return core.Profile{}, core.ErrInvalidAmount
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	p.Name = strings.TrimSpace(e.Name)
	p.Phone = strings.TrimSpace(e.Phone)
	p.City = strings.TrimSpace(e.City)
	p.State = strings.TrimSpace(e.State)
	p.Country = strings.TrimSpace(e.Country)
	p.Points = e.Points
	p.MonthlySalary = e.MonthlySalary.Round(2)
	p.Level = LevelFor(p.Points).Name
	p.UpdatedAt = s.clock()

	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	events.Emit(ctx, s.publisher, events.ProfileUpdated, userID, events.ProfileUpdatedPayload{Points: p.Points, Level: p.Level})
	return p, nil
}

// Promote rewrites the stored level label from the current points. It
// reports whether the label changed.
func (s *Service) Promote(ctx context.Context, userID string) (core.Profile, bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return core.Profile{}, false, err
	}
	level := LevelFor(p.Points).Name
	if level == p.Level {
		return p, false, nil
	}
	p.Level = level
	p.UpdatedAt = s.clock()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return core.Profile{}, false, fmt.Errorf("update level: %w", err)
	}
	events.Emit(ctx, s.publisher, events.ProfileUpdated, userID, events.ProfileUpdatedPayload{Points: p.Points, Level: p.Level})
	return p, true, nil
}

// View is a profile with its level progress.
type View struct {
	core.Profile
	Progress Progress `json:"progress"`
}

func NewView(p core.Profile) View {
	return View{Profile: p, Progress: ProgressFor(p.Points)}
}
