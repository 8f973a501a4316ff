package quiz

import (
	"math/rand"

	"github.com/example/quizbot/pkg/models"
)

// Shuffle returns the questions in random order without touching the input
func Shuffle(questions []models.Question, rnd *rand.Rand) []models.Question {
	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)

	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
