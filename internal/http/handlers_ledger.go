package http

import (
	"fmt"
	"net/http"

	"cofrinho/internal/core"
	"cofrinho/internal/ledger"

	"github.com/shopspring/decimal"
)

// weekRequest carries the client's local copy of the week. Only the cells
// present are set; the week start always comes from the server clock.
type weekRequest struct {
	Entries map[string]map[string]string `json:"entries"`
}

// weekView is a week with its totals against the monthly salary.
type weekView struct {
	ledger.Week
	Scope         ledger.Scope                      `json:"scope"`
	Totals        map[core.Category]decimal.Decimal `json:"totals"`
	TotalExpenses decimal.Decimal                   `json:"total_expenses"`
	MonthlySalary decimal.Decimal                   `json:"monthly_salary"`
	Balance       decimal.Decimal                   `json:"balance"`
	SalaryMissing bool                              `json:"salary_missing"`
}

type saveWeekResponse struct {
	Result ledger.SaveResult `json:"result"`
	Week   weekView          `json:"week"`
}

func (s *Server) newWeekView(w ledger.Week, salary decimal.Decimal) weekView {
	v := weekView{
		Week:          w,
		Scope:         s.ledger.Scope(),
		Totals:        make(map[core.Category]decimal.Decimal, 3),
		TotalExpenses: w.TotalExpenses(),
		MonthlySalary: salary,
		Balance:       ledger.Balance(salary, w),
		SalaryMissing: salary.IsZero(),
	}
	for _, c := range core.Categories() {
		v.Totals[c] = w.Total(c)
	}
	return v
}

// toWeek copies the request cells into a week of the current partition.
func (s *Server) toWeek(req weekRequest) (ledger.Week, error) {
	w := ledger.NewWeek(s.ledger.CurrentWeek())
	for rawCat, row := range req.Entries {
		c, err := core.ParseCategory(rawCat)
		if err != nil {
			return ledger.Week{}, err
		}
		for rawDay, value := range row {
			d, err := core.ParseWeekday(rawDay)
			if err != nil {
				return ledger.Week{}, err
			}
			if err := w.Edit(c, d, sanitizeInput(value)); err != nil {
				return ledger.Week{}, err
			}
		}
	}
	return w, nil
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()
	userID := session(r).UserID

	week, err := s.ledger.Load(ctx, userID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar a semana")
		return
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar perfil")
		return
	}

	resp := NewJSONResponse().Data(s.newWeekView(week, p.MonthlySalary))
	if p.MonthlySalary.IsZero() {
		resp.NotifyWarning("Cadastre seu salário mensal no perfil para acompanhar o saldo")
	}
	resp.Write(w)
}

// handlePreviewWeek recomputes totals for unsaved edits.
func (s *Server) handlePreviewWeek(w http.ResponseWriter, r *http.Request) {
	var req weekRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	week, err := s.toWeek(req)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()
	p, err := s.profiles.Get(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar perfil")
		return
	}
	NewJSONResponse().Data(s.newWeekView(week, p.MonthlySalary)).Write(w)
}

func (s *Server) handleSaveWeek(w http.ResponseWriter, r *http.Request) {
	active, err := core.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	var req weekRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	week, err := s.toWeek(req)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()
	userID := session(r).UserID

	res, err := s.ledger.Save(ctx, userID, week, active)
	if err != nil {
		writeError(w, r, err, "Erro ao salvar")
		return
	}

	// The stored week is reloaded so the response matches what a refresh shows.
	saved, err := s.ledger.Load(ctx, userID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar a semana")
		return
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar perfil")
		return
	}

	resp := NewJSONResponse().Data(saveWeekResponse{Result: res, Week: s.newWeekView(saved, p.MonthlySalary)})
	if len(res.Discarded) > 0 {
		resp.NotifyWarning(fmt.Sprintf("Semana salva, mas os lançamentos de %d outra(s) categoria(s) desta semana foram removidos", len(res.Discarded)))
	} else {
		resp.NotifySuccess("Semana salva com sucesso!")
	}
	resp.Write(w)
}
