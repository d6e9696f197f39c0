package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FixedExpense    Category = "fixed-expense"
	VariableExpense Category = "variable-expense"
	Investment      Category = "investment"
)

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// DefaultLevel is the level label of a freshly created profile.
const DefaultLevel = "Iniciante"

type (
	// Category partitions ledger transactions.
	Category string

	// Weekday labels a ledger cell. Weeks start on Monday.
	Weekday string

	Profile struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		Phone         string          `json:"phone"`
		City          string          `json:"city"`
		State         string          `json:"state"`
		Country       string          `json:"country"`
		Points        int             `json:"points"`
		Level         string          `json:"level"`
		MonthlySalary decimal.Decimal `json:"monthly_salary"`
		CreatedAt     time.Time       `json:"created_at"`
		UpdatedAt     time.Time       `json:"updated_at"`
	}

	Transaction struct {
		ID        string          `json:"id"`
		UserID    string          `json:"user_id"`
		Category  Category        `json:"category"`
		Weekday   Weekday         `json:"weekday"`
		WeekStart Date            `json:"week_start"`
		Amount    decimal.Decimal `json:"amount"`
		CreatedAt time.Time       `json:"created_at"`
	}

	Goal struct {
		ID        string          `json:"id"`
		UserID    string          `json:"user_id"`
		Name      string          `json:"name"`
		Target    decimal.Decimal `json:"target"`
		Current   decimal.Decimal `json:"current"`
		Deadline  *Date           `json:"deadline,omitempty"`
		Achieved  bool            `json:"achieved"`
		CreatedAt time.Time       `json:"created_at"`
	}

	QuizResult struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		ContentType string    `json:"content_type"`
		Score       int       `json:"score"`
		Total       int       `json:"total"`
		CreatedAt   time.Time `json:"created_at"`
	}
)

var (
	ErrEmptyUser       = errors.New("empty user id")
	ErrEmptyName       = errors.New("empty name")
	ErrNameTooLong     = errors.New("name too long (max 120 characters)")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidWeekday  = errors.New("invalid weekday")
	ErrInvalidScore    = errors.New("invalid score")
	ErrNegativePoints  = errors.New("negative points")
)

// Categories lists the ledger categories in display order.
func Categories() []Category {
	return []Category{FixedExpense, VariableExpense, Investment}
}

// Weekdays lists the weekdays Monday first.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) IsValid() bool {
	switch c {
	case FixedExpense, VariableExpense, Investment:
		return true
	}
	return false
}

// IsExpense reports whether the category counts against the monthly salary.
func (c Category) IsExpense() bool {
	return c == FixedExpense || c == VariableExpense
}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.TrimSpace(strings.ToLower(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return d, nil
}

func (d Weekday) IsValid() bool {
	for _, w := range Weekdays() {
		if d == w {
			return true
		}
	}
	return false
}

// Index returns the Monday-based position of the weekday, or -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays() {
		if d == w {
			return i
		}
	}
	return -1
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyUser
	}
	if p.Points < 0 {
		return ErrNegativePoints
	}
	if p.MonthlySalary.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUser
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !t.Weekday.IsValid() {
		return ErrInvalidWeekday
	}
	if err := t.WeekStart.Validate(); err != nil {
		return fmt.Errorf("invalid week start: %w", err)
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUser
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 120 {
		return ErrNameTooLong
	}
	if !g.Target.IsPositive() {
		return ErrInvalidAmount
	}
	if g.Current.IsNegative() {
		return ErrInvalidAmount
	}
	if g.Deadline != nil {
		if err := g.Deadline.Validate(); err != nil {
			return fmt.Errorf("invalid deadline: %w", err)
		}
	}
	return nil
}

func (r QuizResult) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUser
	}
	if strings.TrimSpace(r.ContentType) == "" {
		return errors.New("empty content type")
	}
	if r.Total <= 0 || r.Score < 0 || r.Score > r.Total {
		return ErrInvalidScore
	}
	return nil
}
