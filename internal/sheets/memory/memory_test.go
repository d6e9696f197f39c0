package memory

import (
	"context"
	"testing"

	"cofrinho/internal/core"

	"github.com/shopspring/decimal"
)

func TestExportGoalsReplacesOnlyTheUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	today := core.NewDate(2025, 1, 1)
	goal := func(name string) core.Goal {
		return core.Goal{Name: name, Target: decimal.NewFromInt(100), Current: decimal.Zero}
	}

	_ = s.ExportGoals(ctx, "ana", []core.Goal{goal("a1"), goal("a2")}, today)
	_ = s.ExportGoals(ctx, "bia", []core.Goal{goal("b1")}, today)
	_ = s.ExportGoals(ctx, "ana", []core.Goal{goal("a3")}, today)

	rows := s.Rows(GoalsSheet)
	if len(rows) != 3 {
		t.Fatalf("rows = %v, want header + 2", rows)
	}
	if rows[0][0] != "user_id" || rows[1][1] != "b1" || rows[2][1] != "a3" {
		t.Errorf("rows = %v", rows)
	}
}

func TestRowsIsACopy(t *testing.T) {
	s := New()
	_ = s.ExportWeeklyTotals(context.Background(), "ana", nil)
	rows := s.Rows(WeeksSheet)
	rows[0][0] = "changed"
	if s.Rows(WeeksSheet)[0][0] != "user_id" {
		t.Error("Rows() exposes internal state")
	}
}
