package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{ID: "q1", Prompt: "2 + 2?", Options: []string{"3", "4", "5"}, CorrectIndex: 1}

	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{name: "valid", mutate: func(q *Question) {}},
		{name: "empty id", mutate: func(q *Question) { q.ID = "" }, wantErr: true},
		{name: "empty prompt", mutate: func(q *Question) { q.Prompt = "" }, wantErr: true},
		{name: "single option", mutate: func(q *Question) { q.Options = []string{"4"}; q.CorrectIndex = 0 }, wantErr: true},
		{name: "negative correct index", mutate: func(q *Question) { q.CorrectIndex = -1 }, wantErr: true},
		{name: "correct index past options", mutate: func(q *Question) { q.CorrectIndex = 3 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid.Clone()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuestion)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuestionCloneDoesNotShareOptions(t *testing.T) {
	q := Question{ID: "q1", Prompt: "p", Options: []string{"a", "b"}}
	c := q.Clone()
	c.Options[0] = "changed"

	assert.Equal(t, "a", q.Options[0])
}

func TestNewAnswerRecord(t *testing.T) {
	q := Question{ID: "q7", Prompt: "p", Options: []string{"a", "b", "c"}, CorrectIndex: 2}

	assert.Equal(t, AnswerRecord{QuestionID: "q7", SelectedIndex: 2, IsCorrect: true}, NewAnswerRecord(q, 2))
	assert.Equal(t, AnswerRecord{QuestionID: "q7", SelectedIndex: 0, IsCorrect: false}, NewAnswerRecord(q, 0))
}
