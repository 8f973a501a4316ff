package bot

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/example/quizbot/internal/quiz"
	"github.com/example/quizbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	progressBarWidth = 10
	// Telegram limit for message text, in UTF-16 code units
	maxMessageLength = 4096
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// renderScreen draws the single quiz screen for the current session state
func renderScreen(s *quiz.Session, runID string) (string, tgbotapi.InlineKeyboardMarkup) {
	if s.Finished() {
		return renderResult(s), createKeyboard(resultButtons(s, runID))
	}
	return renderQuestion(s), createKeyboard(questionButtons(s, runID))
}

func renderQuestion(s *quiz.Session) string {
	q, _ := s.CurrentQuestion()

	var text strings.Builder
	text.WriteString(fmt.Sprintf("❓ <b>Question %d/%d</b>\n", s.CurrentIndex()+1, s.Total()))
	text.WriteString(progressBar(s.Progress()) + "\n")
	text.WriteString(fmt.Sprintf("Score: %d\n\n", s.RunningScore()))
	text.WriteString(escape(q.Prompt))
	return text.String()
}

func questionButtons(s *quiz.Session, runID string) [][]MenuButton {
	q, _ := s.CurrentQuestion()
	selected, hasSelection := s.Selection()

	buttons := make([][]MenuButton, 0, len(q.Options)+1)
	for i, option := range q.Options {
		marker := "⚪"
		if hasSelection && selected == i {
			marker = "🔘"
		}
		buttons = append(buttons, []MenuButton{{
			Text:         marker + " " + option,
			CallbackData: selectData(runID, s.CurrentIndex(), i),
		}})
	}

	next := "Next ➡️"
	if s.IsLast() {
		next = "Finish 🏁"
	}
	buttons = append(buttons, []MenuButton{{Text: next, CallbackData: actionData(actionNext, runID)}})
	return buttons
}

func renderResult(s *quiz.Session) string {
	score, _ := s.FinalScore()

	var text strings.Builder
	text.WriteString("🏁 <b>Quiz finished!</b>\n")
	text.WriteString(progressBar(s.Progress()) + "\n")
	text.WriteString(fmt.Sprintf("Your score: <b>%d/%d</b>", score, s.Total()))
	if score == s.Total() {
		text.WriteString(" 🎉")
	}

	if s.ReviewVisible() {
		text.WriteString("\n\n<b>Review</b>\n")
		rows := s.ReviewRows()
		for i, row := range rows {
			entry := "\n" + renderReviewRow(i, row)
			cut := reviewCutNote(len(rows) - i)
			if textLength(text.String())+textLength(entry)+textLength(cut) > maxMessageLength {
				text.WriteString(cut)
				break
			}
			text.WriteString(entry)
		}
	}
	return text.String()
}

// renderReviewRow lists a question with its options annotated
func renderReviewRow(i int, row models.ReviewRow) string {
	var text strings.Builder
	icon := "✅"
	if !row.IsCorrect {
		icon = "❌"
	}
	text.WriteString(fmt.Sprintf("%s %d. %s\n", icon, i+1, escape(row.Prompt)))
	for j, option := range row.Options {
		line := "   • " + escape(option)
		switch row.Mark(j) {
		case models.MarkCorrect:
			line += " (<i>Correct</i>)"
		case models.MarkYourPick:
			line += " (<i>Your pick</i>)"
		}
		text.WriteString(line + "\n")
	}
	return text.String()
}

// reviewCutNote closes a review that does not fit into one message
func reviewCutNote(remaining int) string {
	return fmt.Sprintf("\n<i>%d more not shown. Use /export for the full review.</i>", remaining)
}

// textLength measures text the way Telegram does. Tags and entities are
// counted too, so the result is an upper bound.
func textLength(text string) int {
	return len(utf16.Encode([]rune(text)))
}

func resultButtons(s *quiz.Session, runID string) [][]MenuButton {
	review := "📋 Show review"
	if s.ReviewVisible() {
		review = "🙈 Hide review"
	}
	return [][]MenuButton{
		{{Text: review, CallbackData: actionData(actionReview, runID)}},
		{
			{Text: "📥 Export", CallbackData: actionData(actionExport, runID)},
			{Text: "🔄 Restart", CallbackData: actionData(actionRestart, runID)},
		},
	}
}

// progressBar renders p in [0, 1] as a bar with a percentage
func progressBar(p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(math.Round(p * progressBarWidth))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressBarWidth-filled) +
		fmt.Sprintf(" %d%%", int(math.Round(p*100)))
}

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, text)
}
