package http

import (
	"errors"
	"log/slog"
	"net/http"

	"cofrinho/internal/auth"
	"cofrinho/internal/core"
	"cofrinho/internal/education"
	"cofrinho/internal/goals"
	"cofrinho/internal/quiz"
)

// validationMessages maps input errors to the text shown to the user.
var validationMessages = []struct {
	err error
	msg string
}{
	{core.ErrEmptyName, "Informe um nome"},
	{core.ErrNameTooLong, "Nome muito longo (máximo 120 caracteres)"},
	{core.ErrInvalidAmount, "Valor inválido"},
	{core.ErrInvalidCategory, "Categoria inválida"},
	{core.ErrInvalidWeekday, "Dia da semana inválido"},
	{core.ErrInvalidDate, "Data inválida"},
	{core.ErrNegativePoints, "Pontos não podem ser negativos"},
	{core.ErrInvalidScore, "Pontuação inválida"},
	{quiz.ErrNoSelection, "Selecione uma resposta para cada pergunta"},
	{quiz.ErrInvalidOption, "Opção inválida"},
	{errInvalidContentType, "Tipo de conteúdo inválido"},
}

var errInvalidContentType = errors.New("invalid content type")

// writeError maps err to a response. fallback is the message shown when the
// failure is not the caller's fault; those are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			UnprocessableEntityError(v.msg).Write(w)
			return
		}
	}

	switch {
	case errors.Is(err, errBadRequest):
		BadRequestError("Formato da requisição inválido").Write(w)
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevoked):
		UnauthorizedError("Sessão inválida ou expirada").Write(w)
	case errors.Is(err, education.ErrContentNotFound):
		NotFoundError("Conteúdo não encontrado", "/api/education").Write(w)
	case errors.Is(err, goals.ErrGoalNotFound):
		NotFoundError("Meta não encontrada", "/api/goals").Write(w)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		InternalServerError(fallback).Write(w)
	}
}
