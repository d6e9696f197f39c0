package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNoSelection   = errors.New("no option selected")
	ErrInvalidOption = errors.New("invalid option")
	ErrFinished      = errors.New("quiz already finished")
	ErrNotFinished   = errors.New("quiz not finished")
)

const noSelection = -1

// Engine walks the questions one at a time. It is either answering question
// Index() or Finished(); the score grows when an answer is confirmed.
type Engine struct {
	questions []Question
	index     int
	selected  int
	score     int
	finished  bool
}

func NewEngine(questions []Question) *Engine {
	return &Engine{questions: questions, selected: noSelection, finished: len(questions) == 0}
}

func (e *Engine) Index() int { return e.index }

func (e *Engine) Total() int { return len(e.questions) }

func (e *Engine) Score() int { return e.score }

func (e *Engine) Finished() bool { return e.finished }

// Current returns the question being answered.
func (e *Engine) Current() (Question, error) {
	if e.finished {
		return Question{}, ErrFinished
	}
	return e.questions[e.index], nil
}

// Select marks an option of the current question. Selecting again replaces it.
func (e *Engine) Select(option int) error {
	if e.finished {
		return ErrFinished
	}
	if option < 0 || option >= len(e.questions[e.index].Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	e.selected = option
	return nil
}

// Advance confirms the selection, scores it and moves on. Without a
// selection nothing changes.
func (e *Engine) Advance() error {
	if e.finished {
		return ErrFinished
	}
	if e.selected == noSelection {
		return ErrNoSelection
	}
	if e.selected == e.questions[e.index].Correct {
		e.score++
	}
	e.selected = noSelection
	e.index++
	if e.index == len(e.questions) {
		e.finished = true
	}
	return nil
}

// Replay answers every question in order. It stops at the first bad answer.
func Replay(questions []Question, answers []int) (*Engine, error) {
	e := NewEngine(questions)
	for i := range questions {
		if i >= len(answers) || answers[i] == noSelection {
			return nil, fmt.Errorf("question %d: %w", i+1, ErrNoSelection)
		}
		if err := e.Select(answers[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if err := e.Advance(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return e, nil
}
