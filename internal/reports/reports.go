// Package reports aggregates the transaction history into the chart series
// shown on the reports screen.
package reports

import (
	"fmt"
	"slices"

	"cofrinho/internal/core"

	"github.com/shopspring/decimal"
)

// IllustrativeNotice is shown when the user has no transactions yet.
const IllustrativeNotice = "Esses dados são apenas exemplos ilustrativos"

// weeklyEarned is the flat "earned" figure plotted next to every week.
var weeklyEarned = decimal.NewFromInt(1000)

var weekdayLabels = map[core.Weekday]string{
	core.Monday:    "Seg",
	core.Tuesday:   "Ter",
	core.Wednesday: "Qua",
	core.Thursday:  "Qui",
	core.Friday:    "Sex",
	core.Saturday:  "Sáb",
	core.Sunday:    "Dom",
}

type DayTotal struct {
	Weekday core.Weekday    `json:"weekday"`
	Label   string          `json:"label"`
	Total   decimal.Decimal `json:"total"`
}

type WeekTotal struct {
	Label     string          `json:"label"`
	WeekStart *core.Date      `json:"week_start,omitempty"`
	Spent     decimal.Decimal `json:"spent"`
	Earned    decimal.Decimal `json:"earned"`
}

type Stats struct {
	Total      decimal.Decimal `json:"total"`
	MeanPerDay decimal.Decimal `json:"mean_per_day"`
	MaxDay     decimal.Decimal `json:"max_day"`
}

type Report struct {
	Illustrative bool        `json:"illustrative"`
	Notice       string      `json:"notice,omitempty"`
	ByWeekday    []DayTotal  `json:"by_weekday"`
	ByWeek       []WeekTotal `json:"by_week"`
	Stats        Stats       `json:"stats"`
}

// Build aggregates txs. Every category counts. With no transactions it
// returns the illustrative dataset instead.
func Build(txs []core.Transaction) Report {
	if len(txs) == 0 {
		return Illustrative()
	}

	byDay := map[core.Weekday]decimal.Decimal{}
	byWeek := map[string]decimal.Decimal{}
	var weekOrder []core.Date
	for _, t := range txs {
		byDay[t.Weekday] = byDay[t.Weekday].Add(t.Amount)
		key := t.WeekStart.String()
		if _, seen := byWeek[key]; !seen {
			weekOrder = append(weekOrder, t.WeekStart)
		}
		byWeek[key] = byWeek[key].Add(t.Amount)
	}

	r := Report{ByWeekday: weekdaySeries(byDay)}
	slices.SortFunc(weekOrder, func(a, b core.Date) int { return a.Compare(b.Time) })
	for i, ws := range weekOrder {
		r.ByWeek = append(r.ByWeek, WeekTotal{
			Label:     weekLabel(i),
			WeekStart: &ws,
			Spent:     byWeek[ws.String()],
			Earned:    weeklyEarned,
		})
	}
	r.Stats = statsOf(r.ByWeekday)
	return r
}

// Illustrative is the sample dataset shown to new users.
func Illustrative() Report {
	sample := map[core.Weekday]decimal.Decimal{
		core.Monday:    decimal.NewFromInt(120),
		core.Tuesday:   decimal.NewFromInt(80),
		core.Wednesday: decimal.NewFromInt(150),
		core.Thursday:  decimal.NewFromInt(90),
		core.Friday:    decimal.NewFromInt(200),
		core.Saturday:  decimal.NewFromInt(180),
		core.Sunday:    decimal.NewFromInt(100),
	}
	r := Report{
		Illustrative: true,
		Notice:       IllustrativeNotice,
		ByWeekday:    weekdaySeries(sample),
	}
	for i, spent := range []int64{450, 520, 480, 510} {
		r.ByWeek = append(r.ByWeek, WeekTotal{
			Label:  weekLabel(i),
			Spent:  decimal.NewFromInt(spent),
			Earned: weeklyEarned,
		})
	}
	r.Stats = statsOf(r.ByWeekday)
	return r
}

func weekdaySeries(byDay map[core.Weekday]decimal.Decimal) []DayTotal {
	out := make([]DayTotal, 0, 7)
	for _, d := range core.Weekdays() {
		out = append(out, DayTotal{Weekday: d, Label: weekdayLabels[d], Total: byDay[d]})
	}
	return out
}

// statsOf divides by seven regardless of how many days have data.
func statsOf(days []DayTotal) Stats {
	s := Stats{Total: decimal.Zero, MaxDay: decimal.Zero}
	for _, d := range days {
		s.Total = s.Total.Add(d.Total)
		if d.Total.GreaterThan(s.MaxDay) {
			s.MaxDay = d.Total
		}
	}
	s.MeanPerDay = s.Total.Div(decimal.NewFromInt(7)).Round(2)
	return s
}

func weekLabel(i int) string {
	return fmt.Sprintf("Sem %d", i+1)
}
