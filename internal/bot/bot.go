package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/example/quizbot/internal/excel"
	"github.com/example/quizbot/internal/quiz"
	"github.com/example/quizbot/internal/scheduler"
	"github.com/example/quizbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// telegramAPI is the part of tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram front end of a single quiz session.
// It renders the session as one message that is edited in place and turns
// button taps into session intents.
type Bot struct {
	api       telegramAPI
	config    *BotConfig
	scheduler *scheduler.Scheduler
	now       func() time.Time

	// mu guards everything below; the update loop and the scheduler both
	// drive the session
	mu           sync.Mutex
	session      *quiz.Session
	runID        string
	chatID       int64
	screenID     int
	lastActivity time.Time
}

// NewBot creates a new bot instance
func NewBot(config *BotConfig) (*Bot, error) {
	questions, err := loadQuestions(config)
	if err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = config.Debug
	log.Printf("Authorized on account %s", api.Self.UserName)

	return newBot(api, config, questions)
}

func newBot(api telegramAPI, config *BotConfig, questions []models.Question) (*Bot, error) {
	var opts []quiz.Option
	if config.ShuffleQuestions {
		opts = append(opts, quiz.WithShuffle(rand.NewSource(time.Now().UnixNano())))
	}

	session, err := quiz.New(questions, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz session: %w", err)
	}

	b := &Bot{
		api:     api,
		config:  config,
		now:     time.Now,
		session: session,
		runID:   uuid.NewString(),
		chatID:  config.OwnerChatID,
	}
	b.lastActivity = b.now()

	if config.SchedulerEnabled {
		b.scheduler = scheduler.New(b, config.IdleReset, config.IdleCheckInterval)
	}
	return b, nil
}

// loadQuestions returns the question set from the configured file, or the
// built-in set when no file is configured
func loadQuestions(config *BotConfig) ([]models.Question, error) {
	if config.QuestionsFile == "" {
		return quiz.DefaultQuestions(), nil
	}

	importConfig := excel.DefaultImportConfig()
	importConfig.FilePath = config.QuestionsFile
	questions, result, err := excel.ImportQuestions(importConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to import questions: %w", err)
	}
	for _, msg := range result.Errors {
		log.Printf("Skipped question: %s", msg)
	}
	log.Printf("Imported %d of %d questions from %s", result.Imported, result.TotalProcessed, config.QuestionsFile)
	return questions, nil
}

// Start runs the update loop until ctx is cancelled or the update channel
// is closed. Updates are handled one at a time.
func (b *Bot) Start(ctx context.Context) error {
	if b.scheduler != nil {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.api.StopReceivingUpdates()
		if b.scheduler != nil {
			b.scheduler.Stop()
		}
	}()

	select {
	case <-done:
		log.Println("Bot stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bot stop: %w", ctx.Err())
	}
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if !update.Message.IsCommand() {
			b.sendText(update.Message.Chat.ID, "Use /quiz to show the quiz or /help for the list of commands.")
			return
		}
		if err := b.HandleCommand(ctx, update.Message); err != nil {
			log.Printf("Error handling command /%s: %v", update.Message.Command(), err)
		}
	case update.CallbackQuery != nil:
		if err := b.HandleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("Error handling callback %q: %v", update.CallbackQuery.Data, err)
		}
	}
}

// claimChat binds the quiz to chatID if it is not bound yet and reports
// whether chatID may use it. Callers hold b.mu.
func (b *Bot) claimChat(chatID int64) bool {
	if b.chatID == 0 {
		b.chatID = chatID
		log.Printf("Quiz bound to chat %d", chatID)
	}
	return b.chatID == chatID
}

// restart starts a new run of the session. Callers hold b.mu.
func (b *Bot) restart() {
	b.session.Restart()
	b.runID = uuid.NewString()
	log.Printf("Quiz restarted, run %s", b.runID)
}

// touch records user activity. Callers hold b.mu.
func (b *Bot) touch() {
	b.lastActivity = b.now()
}

// sendScreen posts a new screen message and makes it the current one.
// Callers hold b.mu.
func (b *Bot) sendScreen() error {
	text, markup := renderScreen(b.session, b.runID)
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup

	sent, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send screen: %w", err)
	}
	b.screenID = sent.MessageID
	return nil
}

// updateScreen redraws the current screen message, or posts one if there is
// none yet. Callers hold b.mu.
func (b *Bot) updateScreen() error {
	if b.screenID == 0 {
		return b.sendScreen()
	}

	text, markup := renderScreen(b.session, b.runID)
	edit := tgbotapi.NewEditMessageTextAndMarkup(b.chatID, b.screenID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("failed to update screen: %w", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	callback := tgbotapi.NewCallback(id, text)
	if alert {
		callback = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// ResetIfIdle implements scheduler.IdleResetter
func (b *Bot) ResetIfIdle(now time.Time, idleAfter time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idleAfter <= 0 || b.chatID == 0 {
		return false, nil
	}
	if !b.session.Started() || now.Sub(b.lastActivity) < idleAfter {
		return false, nil
	}

	b.restart()
	b.lastActivity = now
	if b.screenID == 0 {
		return true, nil
	}
	return true, b.updateScreen()
}
