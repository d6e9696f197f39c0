// Package memory is an in-process spreadsheet used when no Google
// spreadsheet is configured, and by tests.
package memory

import (
	"context"
	"sync"

	"cofrinho/internal/core"
	"cofrinho/internal/reports"
	"cofrinho/internal/sheets"
)

const (
	GoalsSheet = "goals"
	WeeksSheet = "weeks"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

var _ sheets.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{sheets: make(map[string][][]string)}
}

func (s *Store) ExportGoals(_ context.Context, userID string, goals []core.Goal, today core.Date) error {
	s.replace(GoalsSheet, sheets.GoalsHeader(), userID, sheets.GoalRows(userID, goals, today))
	return nil
}

func (s *Store) ExportWeeklyTotals(_ context.Context, userID string, weeks []reports.WeekTotal) error {
	s.replace(WeeksSheet, sheets.WeeksHeader(), userID, sheets.WeekRows(userID, weeks))
	return nil
}

func (s *Store) replace(sheet string, header []string, userID string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = sheets.MergeUserRows(s.sheets[sheet], header, userID, rows)
}

// Rows returns a copy of a sheet, header first.
func (s *Store) Rows(sheet string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.sheets[sheet]))
	for i, r := range s.sheets[sheet] {
		out[i] = append([]string(nil), r...)
	}
	return out
}
