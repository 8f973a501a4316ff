package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/example/quizbot/internal/excel"
	"github.com/example/quizbot/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// User-facing texts
const (
	textChooseAnswer = "Please choose an answer before continuing."
	textOutdated     = "This screen is outdated. Use /quiz to get the current one."
	textBusy         = "This quiz is already in use in another chat."
	textFinishFirst  = "Finish the quiz first."

	helpText = "📖 <b>Quiz bot</b>\n\n" +
		"/quiz - Show the quiz screen\n" +
		"/restart - Start over from the first question\n" +
		"/review - Show or hide the review after finishing\n" +
		"/export - Download the review as an Excel file\n" +
		"/help - Show this help"
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.claimChat(message.Chat.ID) {
		b.sendText(message.Chat.ID, textBusy)
		return nil
	}
	b.touch()

	switch message.Command() {
	case "start":
		b.sendHTML("👋 Welcome! Pick an answer for each question, then press Next.\n\n" + helpText)
		return b.sendScreen()
	case "quiz":
		return b.sendScreen()
	case "restart":
		b.restart()
		return b.sendScreen()
	case "review":
		if !b.session.Finished() {
			b.sendText(b.chatID, textFinishFirst)
			return nil
		}
		b.session.ToggleReview()
		return b.updateScreen()
	case "export":
		return b.sendExport()
	case "help":
		b.sendHTML(helpText)
		return nil
	default:
		b.sendText(b.chatID, "Unknown command. Use /help to see the list of commands.")
		return nil
	}
}

// HandleCallback handles callback queries from buttons
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.Message.Chat == nil {
		b.answerCallback(callback.ID, "", false)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.claimChat(callback.Message.Chat.ID) {
		b.answerCallback(callback.ID, textBusy, false)
		return nil
	}

	action, err := parseCallbackData(callback.Data)
	if err != nil {
		b.answerCallback(callback.ID, "Unknown action", false)
		return err
	}
	if action.RunID != b.runID || callback.Message.MessageID != b.screenID {
		b.answerCallback(callback.ID, textOutdated, false)
		return nil
	}
	b.touch()

	switch action.Action {
	case actionSelect:
		if action.Question != b.session.CurrentIndex() {
			b.answerCallback(callback.ID, textOutdated, false)
			return nil
		}
		// Telegram rejects an edit that changes nothing
		if selected, ok := b.session.Selection(); ok && selected == action.Option {
			b.answerCallback(callback.ID, "", false)
			return nil
		}
		if err := b.session.SelectOption(action.Option); err != nil {
			b.answerCallback(callback.ID, textOutdated, false)
			return err
		}

	case actionNext:
		record, err := b.session.Advance()
		if quiz.IsNoSelection(err) {
			b.answerCallback(callback.ID, textChooseAnswer, true)
			return nil
		}
		if err != nil {
			b.answerCallback(callback.ID, textOutdated, false)
			return err
		}
		log.Printf("Answered %s with option %d, correct: %t", record.QuestionID, record.SelectedIndex, record.IsCorrect)

	case actionReview:
		if !b.session.Finished() {
			b.answerCallback(callback.ID, textFinishFirst, false)
			return nil
		}
		b.session.ToggleReview()

	case actionRestart:
		b.restart()

	case actionExport:
		b.answerCallback(callback.ID, "", false)
		return b.sendExport()
	}

	b.answerCallback(callback.ID, "", false)
	return b.updateScreen()
}

// sendExport sends the review of a finished session as an Excel document.
// Callers hold b.mu.
func (b *Bot) sendExport() error {
	if !b.session.Finished() {
		b.sendText(b.chatID, textFinishFirst)
		return nil
	}

	data, result, err := excel.ExportReview(excel.DefaultExportConfig(), b.session.ReviewRows(), b.session.Total())
	if err != nil {
		b.sendText(b.chatID, "❌ Could not build the export, please try again.")
		return fmt.Errorf("failed to export review: %w", err)
	}

	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: "quiz-review.xlsx", Bytes: data})
	doc.Caption = fmt.Sprintf("Quiz review: %d/%d correct", result.Correct, result.Total)
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	return nil
}

func (b *Bot) sendHTML(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
