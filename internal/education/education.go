// Package education holds the fixed catalog of short video lessons that
// lead into the quiz.
package education

import (
	"errors"
	"strconv"
)

var ErrContentNotFound = errors.New("content not found")

// GeneralType tags quiz results that were not started from a lesson.
const GeneralType = "geral"

type Content struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Type        string `json:"type"`
}

var catalog = []Content{
	{
		ID:          1,
		Title:       "Primeiro Salário",
		Description: "Como gastar bem e investir no futuro",
		VideoURL:    "https://www.youtube.com/embed/4m4f2eqHYGQ",
		Type:        "primeiro_salario",
	},
	{
		ID:          2,
		Title:       "Educação Financeira Básica",
		Description: "Fundamentos para organizar suas finanças",
		VideoURL:    "https://www.youtube.com/embed/0dNgTApiqpk",
		Type:        "educacao_basica",
	},
	{
		ID:          3,
		Title:       "Investimentos para Iniciantes",
		Description: "Comece a investir o quanto antes",
		VideoURL:    "https://www.youtube.com/embed/NbD9f4ntR8s",
		Type:        "investimentos",
	},
}

// List returns the catalog in display order.
func List() []Content {
	out := make([]Content, len(catalog))
	copy(out, catalog)
	return out
}

// Get looks a lesson up by its id as it appears in a URL.
func Get(id string) (Content, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return Content{}, ErrContentNotFound
	}
	for _, c := range catalog {
		if c.ID == n {
			return c, nil
		}
	}
	return Content{}, ErrContentNotFound
}

// ValidType reports whether t tags a quiz result: a lesson type or GeneralType.
func ValidType(t string) bool {
	if t == GeneralType {
		return true
	}
	for _, c := range catalog {
		if c.Type == t {
			return true
		}
	}
	return false
}
