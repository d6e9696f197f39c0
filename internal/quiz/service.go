// Package quiz runs the financial-education quiz and turns scores into
// profile points.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cofrinho/internal/core"
	"cofrinho/internal/events"
	"cofrinho/internal/store"

	"github.com/google/uuid"
)

const (
	// PointsPerCorrect is awarded for every correct answer.
	PointsPerCorrect = 20
	// DefaultContentType tags results that were not taken from a content page.
	DefaultContentType = "geral"
)

// Outcome is what the result screen shows.
type Outcome struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
	Awarded    int     `json:"awarded"`
	Points     int     `json:"points"`
}

// Band returns the feedback message for a percentage.
func Band(percentage float64) string {
	switch {
	case percentage >= 80:
		return "🎉 Excelente desempenho!"
	case percentage >= 60:
		return "👍 Bom trabalho!"
	default:
		return "Continue estudando para melhorar!"
	}
}

func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

type Service struct {
	results   store.QuizResultStore
	profiles  store.ProfileStore
	publisher events.Publisher
	clock     core.Clock
	questions []Question
}

func NewService(results store.QuizResultStore, profiles store.ProfileStore, pub events.Publisher, clock core.Clock) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &Service{results: results, profiles: profiles, publisher: pub, clock: clock, questions: Questions()}
}

// Questions returns the question set served to clients.
func (s *Service) Questions() []Question {
	return s.questions
}

// Submit replays answers through a fresh engine and completes it.
func (s *Service) Submit(ctx context.Context, userID, contentType string, answers []int) (Outcome, error) {
	e, err := Replay(s.questions, answers)
	if err != nil {
		return Outcome{}, err
	}
	return s.Complete(ctx, userID, contentType, e)
}

// Complete records the result and adds score×20 to the profile's points.
// The points update reads then writes the profile; concurrent completions by
// the same user can lose an award.
func (s *Service) Complete(ctx context.Context, userID, contentType string, e *Engine) (Outcome, error) {
	if !e.Finished() {
		return Outcome{}, ErrNotFinished
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = DefaultContentType
	}

	result := core.QuizResult{
		ID:          uuid.NewString(),
		UserID:      userID,
		ContentType: contentType,
		Score:       e.Score(),
		Total:       e.Total(),
		CreatedAt:   s.clock(),
	}
	if err := s.results.InsertQuizResult(ctx, result); err != nil {
		return Outcome{}, fmt.Errorf("record quiz result: %w", err)
	}

	awarded := e.Score() * PointsPerCorrect
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load profile for points: %w", err)
	}
	p.Points += awarded
	p.UpdatedAt = s.clock()
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return Outcome{}, fmt.Errorf("award points: %w", err)
	}

	pct := Percentage(e.Score(), e.Total())
	out := Outcome{
		Score:      e.Score(),
		Total:      e.Total(),
		Percentage: pct,
		Message:    Band(pct),
		Awarded:    awarded,
		Points:     p.Points,
	}

	slog.InfoContext(ctx, "Quiz completed",
		"user_id", userID,
		"content_type", contentType,
		"score", out.Score,
		"points", out.Points)
	events.Emit(ctx, s.publisher, events.QuizCompleted, userID, events.QuizCompletedPayload{
		ContentType: contentType,
		Score:       out.Score,
		Total:       out.Total,
		Awarded:     awarded,
		Points:      p.Points,
	})
	return out, nil
}

// History lists the user's results, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]core.QuizResult, error) {
	results, err := s.results.ListQuizResults(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return results, nil
}
