package http

import (
	"net/http"

	"cofrinho/internal/core"
	"cofrinho/internal/goals"
	"cofrinho/internal/ledger"
	"cofrinho/internal/profile"
	"cofrinho/internal/reports"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// sections lists the dashboard cards linking to each area of the app.
var sections = []dashboardSection{
	{Title: "Financeiro", Description: "Gerencie seus gastos semanais", Path: "/api/ledger/week"},
	{Title: "Metas", Description: "Defina e acompanhe seus objetivos", Path: "/api/goals"},
	{Title: "Educação Financeira", Description: "Aprenda sobre finanças", Path: "/api/education"},
	{Title: "Gráficos e Relatórios", Description: "Visualize suas análises", Path: "/api/reports"},
}

type dashboardSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

type dashboardWeek struct {
	WeekStart     core.Date       `json:"week_start"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
	SalaryMissing bool            `json:"salary_missing"`
}

type dashboardResponse struct {
	Greeting     string             `json:"greeting"`
	Profile      profile.View       `json:"profile"`
	Week         dashboardWeek      `json:"week"`
	Goals        goals.Summary      `json:"goals"`
	Spending     reports.Stats      `json:"spending"`
	Illustrative bool               `json:"illustrative"`
	QuizzesTaken int                `json:"quizzes_taken"`
	Sections     []dashboardSection `json:"sections"`
}

// handleDashboard loads every card concurrently. One failure fails the page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()
	userID := session(r).UserID

	var (
		p       core.Profile
		week    ledger.Week
		list    []core.Goal
		report  reports.Report
		results []core.QuizResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p, err = s.profiles.Get(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		week, err = s.ledger.Load(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		list, err = s.goals.List(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		report, err = s.reports.Report(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		results, err = s.quiz.History(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err, "Erro ao carregar o painel")
		return
	}

	name := p.Name
	if name == "" {
		name = "estudante"
	}
	NewJSONResponse().Data(dashboardResponse{
		Greeting: "Olá, " + name + "!",
		Profile:  profile.NewView(p),
		Week: dashboardWeek{
			WeekStart:     week.WeekStart,
			TotalExpenses: week.TotalExpenses(),
			Balance:       ledger.Balance(p.MonthlySalary, week),
			SalaryMissing: p.MonthlySalary.IsZero(),
		},
		Goals:        goals.Summarize(list),
		Spending:     report.Stats,
		Illustrative: report.Illustrative,
		QuizzesTaken: len(results),
		Sections:     sections,
	}).Write(w)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	report, err := s.reports.Report(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar relatórios")
		return
	}
	resp := NewJSONResponse().Data(report)
	if report.Illustrative {
		resp.Notify(NotificationInfo, reports.IllustrativeNotice, 5000)
	}
	resp.Write(w)
}
