package http

import (
	"bytes"
	"context"
	"net/http"

	"cofrinho/internal/core"
	"cofrinho/internal/goals"

	"github.com/shopspring/decimal"
)

type createGoalRequest struct {
	Name     string      `json:"name"`
	Target   amountField `json:"target"`
	Deadline string      `json:"deadline"`
}

type amountRequest struct {
	Amount amountField `json:"amount"`
}

type goalsResponse struct {
	Goals   []goals.View  `json:"goals"`
	Summary goals.Summary `json:"summary"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	list, err := s.goals.List(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar metas")
		return
	}
	NewJSONResponse().Data(goalsResponse{
		Goals:   goals.Views(list, s.today()),
		Summary: goals.Summarize(list),
	}).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	target, err := req.Target.Positive()
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	deadline, err := parseOptionalDate(req.Deadline)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()

	g, err := s.goals.Create(ctx, session(r).UserID, sanitizeInput(req.Name), target, deadline)
	if err != nil {
		writeError(w, r, err, "Erro ao criar meta")
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Data(goals.NewView(g, s.today())).
		NotifySuccess("Meta criada com sucesso!").
		Write(w)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.adjustGoal(w, r, s.goals.Deposit, "Depósito registrado!")
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.adjustGoal(w, r, s.goals.Withdraw, "Retirada registrada!")
}

type adjustFunc func(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.Goal, error)

func (s *Server) adjustGoal(w http.ResponseWriter, r *http.Request, adjust adjustFunc, done string) {
	var req amountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	amount, err := req.Amount.Positive()
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()

	g, err := adjust(ctx, session(r).UserID, r.PathValue("id"), amount)
	if err != nil {
		writeError(w, r, err, "Erro ao atualizar meta")
		return
	}
	resp := NewJSONResponse().Data(goals.NewView(g, s.today()))
	if g.Achieved {
		resp.NotifySuccess("Parabéns! Meta atingida!")
	} else {
		resp.NotifySuccess(done)
	}
	resp.Write(w)
}

// handleExportGoals downloads the goals report as CSV.
func (s *Server) handleExportGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	list, err := s.goals.List(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao exportar relatório")
		return
	}

	// Rendered to a buffer so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := goals.ExportCSV(&buf, list, s.today()); err != nil {
		writeError(w, r, err, "Erro ao exportar relatório")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="metas-`+s.today().String()+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
