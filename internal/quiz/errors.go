package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when a session is created without questions
	ErrNoQuestions = errors.New("quiz: no questions")
	// ErrDuplicateQuestion is returned when two questions share an id
	ErrDuplicateQuestion = errors.New("quiz: duplicate question id")
	// ErrSessionFinished is returned for intents that need an unfinished session
	ErrSessionFinished = errors.New("quiz: session finished")
	// ErrOptionOutOfRange is returned when an option index does not exist
	ErrOptionOutOfRange = errors.New("quiz: option out of range")
	// ErrNoAnswer is returned when a review row is requested for an unanswered question
	ErrNoAnswer = errors.New("quiz: question not answered")
)

// NoSelectionError is returned by Advance when no option has been chosen
// for the current question. The session is left unchanged.
type NoSelectionError struct {
	QuestionID string
}

func (e *NoSelectionError) Error() string {
	return fmt.Sprintf("quiz: no option selected for question %s", e.QuestionID)
}

// IsNoSelection reports whether err is a NoSelectionError
func IsNoSelection(err error) bool {
	var target *NoSelectionError
	return errors.As(err, &target)
}
