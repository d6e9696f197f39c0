package http

import (
	"net/http"
	"strings"

	"cofrinho/internal/core"
	"cofrinho/internal/education"
	"cofrinho/internal/quiz"
)

type submitQuizRequest struct {
	// ContentType tags the result with the lesson the quiz was taken from.
	ContentType string `json:"content_type"`
	Answers     []int  `json:"answers"`
}

type quizResponse struct {
	Questions   []quiz.Question `json:"questions"`
	ContentType string          `json:"content_type"`
	PointsEach  int             `json:"points_each"`
}

type quizResultsResponse struct {
	Results []core.QuizResult `json:"results"`
}

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(education.List()).Write(w)
}

func (s *Server) handleGetEducation(w http.ResponseWriter, r *http.Request) {
	c, err := education.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	NewJSONResponse().Data(c).Write(w)
}

// handleGetQuiz returns the questions without their answers. ?type= carries
// the lesson the quiz is launched from.
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	contentType, err := quizContentType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	NewJSONResponse().Data(quizResponse{
		Questions:   s.quiz.Questions(),
		ContentType: contentType,
		PointsEach:  quiz.PointsPerCorrect,
	}).Write(w)
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	contentType, err := quizContentType(req.ContentType)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	ctx, cancel := s.readContext(r)
	defer cancel()

	out, err := s.quiz.Submit(ctx, session(r).UserID, contentType, req.Answers)
	if err != nil {
		writeError(w, r, err, "Erro ao registrar resultado do quiz")
		return
	}
	NewJSONResponse().Data(out).NotifySuccess(out.Message).Write(w)
}

func (s *Server) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readContext(r)
	defer cancel()

	results, err := s.quiz.History(ctx, session(r).UserID)
	if err != nil {
		writeError(w, r, err, "Erro ao carregar resultados")
		return
	}
	if results == nil {
		results = []core.QuizResult{}
	}
	NewJSONResponse().Data(quizResultsResponse{Results: results}).Write(w)
}

// quizContentType defaults an empty tag to the general quiz and rejects tags
// no lesson uses.
func quizContentType(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return quiz.DefaultContentType, nil
	}
	if !education.ValidType(t) {
		return "", errInvalidContentType
	}
	return t, nil
}
