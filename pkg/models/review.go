package models

// OptionMark annotates an option on the review screen
type OptionMark string

const (
	// MarkNone is an option that was neither correct nor picked
	MarkNone OptionMark = ""
	// MarkCorrect is the correct option
	MarkCorrect OptionMark = "Correct"
	// MarkYourPick is an incorrect option the user picked
	MarkYourPick OptionMark = "Your pick"
)

// ReviewRow pairs a question with the answer given to it
type ReviewRow struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	PickedIndex  int      `json:"picked_index"`
	IsCorrect    bool     `json:"is_correct"`
}

// NewReviewRow builds the review row for a question and its answer
func NewReviewRow(q Question, answer AnswerRecord) ReviewRow {
	q = q.Clone()
	return ReviewRow{
		Prompt:       q.Prompt,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
		PickedIndex:  answer.SelectedIndex,
		IsCorrect:    answer.IsCorrect,
	}
}

// Mark returns the annotation for the option at index
func (r ReviewRow) Mark(index int) OptionMark {
	switch {
	case index == r.CorrectIndex:
		return MarkCorrect
	case index == r.PickedIndex && !r.IsCorrect:
		return MarkYourPick
	default:
		return MarkNone
	}
}

// CorrectOption returns the text of the correct option
func (r ReviewRow) CorrectOption() string {
	return optionAt(r.Options, r.CorrectIndex)
}

// PickedOption returns the text of the picked option
func (r ReviewRow) PickedOption() string {
	return optionAt(r.Options, r.PickedIndex)
}

func optionAt(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index]
}
