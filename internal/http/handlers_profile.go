package http

import (
	"net/http"

	"cofrinho/internal/profile"
)

type profileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	// Points and MonthlySalary keep the stored value when omitted.
	Points        *int         `json:"points"`
	MonthlySalary *amountField `json:"monthly_salary"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	p, err := s.profiles.Get(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar perfil")
		return
	}
	NewJSONResponse().Data(profile.NewView(p)).Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()
	userID := session(r).UserID

	edit := profile.Edit{
		Name:    sanitizeInput(req.Name),
		Phone:   sanitizeInput(req.Phone),
		City:    sanitizeInput(req.City),
		State:   sanitizeInput(req.State),
		Country: sanitizeInput(req.Country),
	}
	if req.MonthlySalary != nil {
		salary, err := req.MonthlySalary.NonNegative()
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		edit.MonthlySalary = salary
	}
	if req.Points == nil || req.MonthlySalary == nil {
		current, err := s.profiles.Get(ctx, userID)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar perfil")
			return
		}
		edit.Points = current.Points
		if req.MonthlySalary == nil {
			edit.MonthlySalary = current.MonthlySalary
		}
	}
	if req.Points != nil {
		edit.Points = *req.Points
	}

	p, err := s.profiles.Update(ctx, userID, edit)
	if err != nil {
		writeError(w, r, err, "Erro ao atualizar perfil")
		return
	}
	NewJSONResponse().
		Data(profile.NewView(p)).
		NotifySuccess("Perfil atualizado com sucesso!").
		Write(w)
}
