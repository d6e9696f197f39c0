package ledger

import (
	"fmt"

	"cofrinho/internal/core"

	"github.com/shopspring/decimal"
)

// Week holds the user-entered cells of one ledger week, keyed by category then
// weekday. Values are kept as typed so an unfinished edit survives a round trip.
type Week struct {
	WeekStart core.Date                                 `json:"week_start"`
	Entries   map[core.Category]map[core.Weekday]string `json:"entries"`
}

// NewWeek returns an empty week with a row for every category.
func NewWeek(start core.Date) Week {
	w := Week{WeekStart: start, Entries: make(map[core.Category]map[core.Weekday]string, 3)}
	for _, c := range core.Categories() {
		w.Entries[c] = map[core.Weekday]string{}
	}
	return w
}

func (w *Week) row(c core.Category) map[core.Weekday]string {
	if w.Entries == nil {
		w.Entries = make(map[core.Category]map[core.Weekday]string, 3)
	}
	r, ok := w.Entries[c]
	if !ok {
		r = map[core.Weekday]string{}
		w.Entries[c] = r
	}
	return r
}

// Edit sets one cell. It never touches the store.
func (w *Week) Edit(c core.Category, d core.Weekday, value string) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidCategory, c)
	}
	if !d.IsValid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidWeekday, d)
	}
	if value == "" {
		delete(w.row(c), d)
		return nil
	}
	w.row(c)[d] = value
	return nil
}

// Reset clears every cell of category c locally.
func (w *Week) Reset(c core.Category) {
	if w.Entries != nil {
		w.Entries[c] = map[core.Weekday]string{}
	}
}

func (w Week) Value(c core.Category, d core.Weekday) string {
	return w.Entries[c][d]
}

// Total sums the numeric cells of category c, negatives included. Unparseable
// cells count as zero.
func (w Week) Total(c core.Category) decimal.Decimal {
	total := decimal.Zero
	for _, v := range w.Entries[c] {
		total = total.Add(core.AmountOrZero(v))
	}
	return total
}

// TotalExpenses is fixed plus variable expenses.
func (w Week) TotalExpenses() decimal.Decimal {
	return w.Total(core.FixedExpense).Add(w.Total(core.VariableExpense))
}

// Balance is what remains of the monthly salary after this week's expenses.
func Balance(salary decimal.Decimal, w Week) decimal.Decimal {
	return salary.Sub(w.TotalExpenses())
}

// Cell is one persisted ledger amount.
type Cell struct {
	Weekday core.Weekday
	Amount  decimal.Decimal
}

// Cells returns the strictly positive entries of category c, Monday first.
func (w Week) Cells(c core.Category) []Cell {
	var out []Cell
	row := w.Entries[c]
	for _, d := range core.Weekdays() {
		amount, err := core.ParseAmount(row[d])
		if err != nil || !amount.IsPositive() {
			continue
		}
		out = append(out, Cell{Weekday: d, Amount: amount})
	}
	return out
}

// fromTransactions buckets stored rows into a week.
func fromTransactions(start core.Date, txs []core.Transaction) Week {
	w := NewWeek(start)
	for _, t := range txs {
		if !t.Category.IsValid() || !t.Weekday.IsValid() {
			continue
		}
		w.row(t.Category)[t.Weekday] = t.Amount.String()
	}
	return w
}
