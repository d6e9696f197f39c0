package sheets

import (
	"cofrinho/internal/core"
	"cofrinho/internal/goals"
	"cofrinho/internal/reports"
)

const userColumn = "user_id"

// GoalsHeader is the header row of the goals sheet.
func GoalsHeader() []string {
	return append([]string{userColumn}, goals.ExportHeader()...)
}

// WeeksHeader is the header row of the weekly totals sheet.
func WeeksHeader() []string {
	return []string{userColumn, "semana", "inicio", "gasto", "ganho"}
}

func GoalRows(userID string, gs []core.Goal, today core.Date) [][]string {
	records := goals.Records(gs, today)
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = append([]string{userID}, r...)
	}
	return out
}

func WeekRows(userID string, weeks []reports.WeekTotal) [][]string {
	out := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		start := ""
		if w.WeekStart != nil {
			start = w.WeekStart.String()
		}
		out = append(out, []string{userID, w.Label, start, w.Spent.StringFixed(2), w.Earned.StringFixed(2)})
	}
	return out
}

// MergeUserRows replaces userID's rows in existing. The first row of the
// result is always header; rows of other users keep their order.
func MergeUserRows(existing [][]string, header []string, userID string, rows [][]string) [][]string {
	out := [][]string{header}
	for i, row := range existing {
		if i == 0 && len(row) > 0 && row[0] == userColumn {
			continue
		}
		if len(row) == 0 || row[0] == "" || row[0] == userID {
			continue
		}
		out = append(out, row)
	}
	return append(out, rows...)
}
