// Package sheets mirrors per-user summaries into a shared spreadsheet.
// Every row starts with the owning user id; an export replaces that user's
// rows and leaves everyone else's alone.
package sheets

import (
	"context"

	"cofrinho/internal/core"
	"cofrinho/internal/reports"
)

type Exporter interface {
	ExportGoals(ctx context.Context, userID string, goals []core.Goal, today core.Date) error
	ExportWeeklyTotals(ctx context.Context, userID string, weeks []reports.WeekTotal) error
}
