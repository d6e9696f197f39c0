// Package worker reacts to domain events: it promotes profile levels after
// quizzes and mirrors goals and weekly totals to the spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	applog "cofrinho/internal/log"
	"cofrinho/internal/reports"
	"cofrinho/internal/sheets"
	"cofrinho/internal/store"
)

// Promoter rewrites a profile's level from its points.
type Promoter interface {
	Promote(ctx context.Context, userID string) (core.Profile, bool, error)
}

type Worker struct {
	profiles Promoter
	goals    store.GoalStore
	txs      store.TransactionStore
	exporter sheets.Exporter
	clock    core.Clock
	logger   *applog.Logger
}

type Deps struct {
	Profiles     Promoter
	Goals        store.GoalStore
	Transactions store.TransactionStore
	// Exporter is optional; without it spreadsheet mirroring is skipped.
	Exporter sheets.Exporter
	Clock    core.Clock
	Logger   *applog.Logger
}

func New(d Deps) *Worker {
	if d.Clock == nil {
		d.Clock = core.SystemClock
	}
	if d.Logger == nil {
		d.Logger = applog.New(applog.DefaultConfig())
	}
	return &Worker{
		profiles: d.Profiles,
		goals:    d.Goals,
		txs:      d.Transactions,
		exporter: d.Exporter,
		clock:    d.Clock,
		logger:   d.Logger.WithComponent(applog.ComponentWorker),
	}
}

// Handle processes one event. A returned error asks for redelivery, so
// permanent failures such as a vanished user are logged and swallowed.
func (w *Worker) Handle(ctx context.Context, e events.Event) error {
	logger := w.logger.With(applog.FieldEventID, e.ID, applog.FieldEventType, string(e.Type), applog.FieldUserID, e.UserID)

	var err error
	switch e.Type {
	case events.QuizCompleted:
		err = w.promote(ctx, logger, e.UserID)
	case events.GoalCreated, events.GoalUpdated:
		err = w.exportGoals(ctx, e.UserID)
	case events.GoalAchieved:
		var p events.GoalPayload
		if decodeErr := e.Decode(&p); decodeErr == nil {
			logger.InfoContext(ctx, "Goal achieved", applog.FieldGoalID, p.Goal.ID)
		}
	case events.WeekSaved:
		err = w.exportWeeks(ctx, e.UserID)
	default:
		logger.DebugContext(ctx, "Ignoring event")
		return nil
	}

	if errors.Is(err, store.ErrNotFound) {
		logger.WarnContext(ctx, "Event refers to missing data, dropping", applog.FieldError, err)
		return nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Event handling failed", applog.FieldError, err)
		return err
	}
	return nil
}

func (w *Worker) promote(ctx context.Context, logger *applog.Logger, userID string) error {
	p, changed, err := w.profiles.Promote(ctx, userID)
	if err != nil {
		return fmt.Errorf("promote level: %w", err)
	}
	if changed {
		logger.InfoContext(ctx, "Level promoted", applog.FieldPoints, p.Points, "level", p.Level)
	}
	return nil
}

func (w *Worker) exportGoals(ctx context.Context, userID string) error {
	if w.exporter == nil {
		return nil
	}
	goals, err := w.goals.ListGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}
	if err := w.exporter.ExportGoals(ctx, userID, goals, core.DateOf(w.clock())); err != nil {
		return fmt.Errorf("export goals: %w", err)
	}
	return nil
}

func (w *Worker) exportWeeks(ctx context.Context, userID string) error {
	if w.exporter == nil {
		return nil
	}
	txs, err := w.txs.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	var weeks []reports.WeekTotal
	if rep := reports.Build(txs); !rep.Illustrative {
		weeks = rep.ByWeek
	}
	if err := w.exporter.ExportWeeklyTotals(ctx, userID, weeks); err != nil {
		return fmt.Errorf("export weekly totals: %w", err)
	}
	return nil
}
