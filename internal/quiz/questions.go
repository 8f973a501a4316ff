package quiz

import "github.com/example/quizbot/pkg/models"

// DefaultQuestions returns the built-in question set.
// Every call returns a fresh copy.
func DefaultQuestions() []models.Question {
	return []models.Question{
		{
			ID:           "q1",
			Prompt:       "Which language runs natively in every web browser?",
			Options:      []string{"Java", "C#", "Python", "JavaScript"},
			CorrectIndex: 3,
		},
		{
			ID:           "q2",
			Prompt:       "Which library is React Native built on?",
			Options:      []string{"Angular", "Vue", "React", "Svelte"},
			CorrectIndex: 2,
		},
		{
			ID:           "q3",
			Prompt:       "What does CSS stand for?",
			Options:      []string{"Computer Style Sheets", "Cascading Style Sheets", "Creative Style System", "Colorful Style Sheets"},
			CorrectIndex: 1,
		},
		{
			ID:           "q4",
			Prompt:       "Which HTML tag creates an unordered list?",
			Options:      []string{"<ol>", "<ul>", "<li>"},
			CorrectIndex: 1,
		},
		{
			ID:           "q5",
			Prompt:       "Which HTML tag is used to embed JavaScript?",
			Options:      []string{"<js>", "<javascript>", "<script>", "<code>"},
			CorrectIndex: 2,
		},
	}
}
