package models

// AnswerRecord is the answer given to one question of a session
type AnswerRecord struct {
	QuestionID    string `json:"question_id"`
	SelectedIndex int    `json:"selected_index"`
	IsCorrect     bool   `json:"is_correct"`
}

// NewAnswerRecord grades the selected option against the question
func NewAnswerRecord(q Question, selected int) AnswerRecord {
	return AnswerRecord{
		QuestionID:    q.ID,
		SelectedIndex: selected,
		IsCorrect:     q.IsCorrect(selected),
	}
}
