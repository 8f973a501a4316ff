package quiz

import (
	"fmt"
	"math/rand"

	"github.com/example/quizbot/pkg/models"
)

// NoSelection marks that no option is chosen for the current question
const NoSelection = -1

// Phase is the coarse state of a session
type Phase string

const (
	// PhaseInProgress means questions are still being answered
	PhaseInProgress Phase = "in_progress"
	// PhaseFinished means every question has an answer
	PhaseFinished Phase = "finished"
)

// State is the mutable part of a session.
// Answers[i] always belongs to the i-th question of the session.
type State struct {
	CurrentIndex     int
	CurrentSelection int
	Answers          []models.AnswerRecord
	Finished         bool
	ReviewVisible    bool
}

// InitialState returns the state of a new or restarted session
func InitialState() State {
	return State{CurrentIndex: 0, CurrentSelection: NoSelection}
}

// Option configures a Session
type Option func(*Session)

// WithShuffle reorders the questions on creation and on every restart
func WithShuffle(src rand.Source) Option {
	return func(s *Session) {
		s.rnd = rand.New(src)
	}
}

// Session is the quiz session controller. It owns the question set and the
// session state; callers change the state only through the intent methods.
// A Session is not safe for concurrent use.
type Session struct {
	source    []models.Question
	questions []models.Question
	state     State
	rnd       *rand.Rand
}

// New creates a session over a copy of questions
func New(questions []models.Question, opts ...Option) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	seen := make(map[string]bool, len(questions))
	source := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quiz: %w", err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = true
		source = append(source, q.Clone())
	}

	s := &Session{source: source}
	for _, opt := range opts {
		opt(s)
	}
	s.Restart()
	return s, nil
}

// NewDefault creates a session over the built-in question set
func NewDefault(opts ...Option) *Session {
	s, err := New(DefaultQuestions(), opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// SelectOption chooses an option for the current question.
// Choosing again replaces the previous choice.
func (s *Session) SelectOption(index int) error {
	if s.state.Finished {
		return ErrSessionFinished
	}
	if !s.questions[s.state.CurrentIndex].HasOption(index) {
		return fmt.Errorf("%w: %d", ErrOptionOutOfRange, index)
	}
	s.state.CurrentSelection = index
	return nil
}

// Advance records the answer for the current question and moves on.
// On the last question the session becomes finished and CurrentIndex
// moves past the end of the question set.
func (s *Session) Advance() (models.AnswerRecord, error) {
	if s.state.Finished {
		return models.AnswerRecord{}, ErrSessionFinished
	}

	q := s.questions[s.state.CurrentIndex]
	if s.state.CurrentSelection == NoSelection {
		return models.AnswerRecord{}, &NoSelectionError{QuestionID: q.ID}
	}

	record := models.NewAnswerRecord(q, s.state.CurrentSelection)
	s.state.Answers = append(s.state.Answers, record)
	s.state.CurrentIndex++
	s.state.CurrentSelection = NoSelection
	if s.state.CurrentIndex == len(s.questions) {
		s.state.Finished = true
	}
	return record, nil
}

// ToggleReview shows or hides the review of a finished session and returns
// the new visibility. It does nothing while the session is in progress.
func (s *Session) ToggleReview() bool {
	if s.state.Finished {
		s.state.ReviewVisible = !s.state.ReviewVisible
	}
	return s.state.ReviewVisible
}

// Restart discards all answers and returns to the first question
func (s *Session) Restart() {
	s.questions = s.source
	if s.rnd != nil {
		s.questions = Shuffle(s.source, s.rnd)
	}
	s.state = InitialState()
}

// State returns a copy of the session state
func (s *Session) State() State {
	st := s.state
	if st.Answers != nil {
		st.Answers = make([]models.AnswerRecord, len(s.state.Answers))
		copy(st.Answers, s.state.Answers)
	}
	return st
}

// Phase returns the coarse state of the session
func (s *Session) Phase() Phase {
	if s.state.Finished {
		return PhaseFinished
	}
	return PhaseInProgress
}

// Finished reports whether every question has been answered
func (s *Session) Finished() bool { return s.state.Finished }

// ReviewVisible reports whether the review is shown
func (s *Session) ReviewVisible() bool { return s.state.ReviewVisible }

// Started reports whether anything was selected or answered since the
// last restart
func (s *Session) Started() bool {
	return s.state.CurrentSelection != NoSelection || len(s.state.Answers) > 0
}

// Total returns the number of questions
func (s *Session) Total() int { return len(s.questions) }

// CurrentIndex returns the index of the question being answered
func (s *Session) CurrentIndex() int { return s.state.CurrentIndex }

// CurrentQuestion returns the question being answered.
// It reports false once the session is finished.
func (s *Session) CurrentQuestion() (models.Question, bool) {
	if s.state.Finished {
		return models.Question{}, false
	}
	return s.questions[s.state.CurrentIndex].Clone(), true
}

// Selection returns the chosen option for the current question, if any
func (s *Session) Selection() (int, bool) {
	return s.state.CurrentSelection, s.state.CurrentSelection != NoSelection
}

// IsLast reports whether the current question is the last one
func (s *Session) IsLast() bool {
	return !s.state.Finished && s.state.CurrentIndex == len(s.questions)-1
}

// Progress returns the share of the quiz already answered, in [0, 1]
func (s *Session) Progress() float64 {
	if s.state.Finished {
		return 1
	}
	p := float64(s.state.CurrentIndex) / float64(len(s.questions))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RunningScore counts the correct answers given so far
func (s *Session) RunningScore() int {
	score := 0
	for _, a := range s.state.Answers {
		if a.IsCorrect {
			score++
		}
	}
	return score
}

// FinalScore returns the score of a finished session.
// It reports false while the session is still in progress.
func (s *Session) FinalScore() (int, bool) {
	return s.RunningScore(), s.state.Finished
}

// ReviewRow returns the review of the i-th answered question
func (s *Session) ReviewRow(i int) (models.ReviewRow, error) {
	if i < 0 || i >= len(s.state.Answers) {
		return models.ReviewRow{}, fmt.Errorf("%w: %d", ErrNoAnswer, i)
	}
	return models.NewReviewRow(s.questions[i], s.state.Answers[i]), nil
}

// ReviewRows returns the review of every answered question in order
func (s *Session) ReviewRows() []models.ReviewRow {
	rows := make([]models.ReviewRow, 0, len(s.state.Answers))
	for i, a := range s.state.Answers {
		rows = append(rows, models.NewReviewRow(s.questions[i], a))
	}
	return rows
}
