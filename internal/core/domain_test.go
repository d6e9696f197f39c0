package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"fixed-expense", FixedExpense, true},
		{" Variable-Expense ", VariableExpense, true},
		{"investment", Investment, true},
		{"despesas_fixas", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %q, %v", i, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("case %d expected ErrInvalidCategory, got %v", i, err)
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	for i, d := range Weekdays() {
		if d.Index() != i {
			t.Fatalf("%s index=%d want %d", d, d.Index(), i)
		}
	}
	if Weekday("segunda").Index() != -1 {
		t.Fatalf("unknown weekday should have index -1")
	}
	if _, err := ParseWeekday("Sunday"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:    "u1",
		Category:  FixedExpense,
		Weekday:   Monday,
		WeekStart: NewDate(2025, 3, 3),
		Amount:    decimal.NewFromInt(10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Category: FixedExpense, Weekday: Monday, WeekStart: NewDate(2025, 3, 3), Amount: decimal.NewFromInt(1)},
		{UserID: "u", Category: "other", Weekday: Monday, WeekStart: NewDate(2025, 3, 3), Amount: decimal.NewFromInt(1)},
		{UserID: "u", Category: FixedExpense, Weekday: "funday", WeekStart: NewDate(2025, 3, 3), Amount: decimal.NewFromInt(1)},
		{UserID: "u", Category: FixedExpense, Weekday: Monday, Amount: decimal.NewFromInt(1)},
		{UserID: "u", Category: FixedExpense, Weekday: Monday, WeekStart: NewDate(2025, 3, 3), Amount: decimal.Zero},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{UserID: "u", Name: "Viagem", Target: decimal.NewFromInt(200)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Goal{UserID: "u", Name: " ", Target: decimal.NewFromInt(1)}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Goal{UserID: "u", Name: "x", Target: decimal.Zero}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := (Goal{UserID: "u", Name: "x", Target: decimal.NewFromInt(1), Current: decimal.NewFromInt(-1)}).Validate(); err == nil {
		t.Fatalf("expected error for negative current")
	}
}

func TestQuizResultValidate(t *testing.T) {
	if err := (QuizResult{UserID: "u", ContentType: "geral", Score: 5, Total: 5}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (QuizResult{UserID: "u", ContentType: "geral", Score: 6, Total: 5}).Validate(); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
}

func TestProfileValidate(t *testing.T) {
	if err := (Profile{ID: "u"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Profile{ID: "u", Points: -1}).Validate(); !errors.Is(err, ErrNegativePoints) {
		t.Fatalf("expected ErrNegativePoints, got %v", err)
	}
}
