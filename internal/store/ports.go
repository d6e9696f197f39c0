package store

import (
	"context"
	"errors"

	"cofrinho/internal/core"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters. Every call is one request against the backing
// store: it either succeeds or fails as a whole, there are no partial results.
type (
	ProfileStore interface {
		GetProfile(ctx context.Context, userID string) (core.Profile, error)
		CreateProfile(ctx context.Context, p core.Profile) error
		UpdateProfile(ctx context.Context, p core.Profile) error
	}

	TransactionStore interface {
		// ListWeek returns the user's transactions for one week partition.
		ListWeek(ctx context.Context, userID string, weekStart core.Date) ([]core.Transaction, error)
		// ListTransactions returns the full history ordered by week start, oldest first.
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		// DeleteWeek removes every category of the week partition.
		DeleteWeek(ctx context.Context, userID string, weekStart core.Date) error
		// DeleteWeekCategory removes one category of the week partition.
		DeleteWeekCategory(ctx context.Context, userID string, weekStart core.Date, category core.Category) error
		InsertTransactions(ctx context.Context, txs []core.Transaction) error
	}

	GoalStore interface {
		// ListGoals returns the user's goals, newest first.
		ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
		GetGoal(ctx context.Context, userID, goalID string) (core.Goal, error)
		InsertGoal(ctx context.Context, g core.Goal) error
		UpdateGoal(ctx context.Context, g core.Goal) error
	}

	QuizResultStore interface {
		InsertQuizResult(ctx context.Context, r core.QuizResult) error
		// ListQuizResults returns the user's attempts, newest first.
		ListQuizResults(ctx context.Context, userID string) ([]core.QuizResult, error)
	}

	// Store bundles every port; backends implement all of them.
	Store interface {
		ProfileStore
		TransactionStore
		GoalStore
		QuizResultStore
	}
)
