package models

import (
	"errors"
	"fmt"
)

// ErrInvalidQuestion is returned when a question cannot be used in a quiz
var ErrInvalidQuestion = errors.New("invalid question")

// Question represents a single multiple-choice question
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"` // Index of the correct answer in Options
}

// Validate checks that the question has a prompt, at least two options
// and a correct index that points at one of them
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidQuestion)
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: question %s has an empty prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %s has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if !q.HasOption(q.CorrectIndex) {
		return fmt.Errorf("%w: question %s has correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// HasOption reports whether index addresses one of the options
func (q Question) HasOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

// IsCorrect reports whether index is the correct answer
func (q Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// Clone returns a copy that does not share the options slice
func (q Question) Clone() Question {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	q.Options = options
	return q
}
