package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/example/quizbot/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChatID int64 = 100

// fakeAPI records everything the bot sends
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	lastID   int
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok {
		return tgbotapi.Message{}, nil
	}
	f.lastID++
	return tgbotapi.Message{MessageID: f.lastID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) lastSent(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	edit, ok := f.lastSent(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok, "last sent is not an edit")
	return edit
}

func (f *fakeAPI) lastCallback(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	callback, ok := f.requests[len(f.requests)-1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	return callback
}

func (f *fakeAPI) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	cfg := DefaultConfig()
	cfg.Token = "token"
	cfg.SchedulerEnabled = false
	b, err := newBot(api, cfg, quiz.DefaultQuestions())
	require.NoError(t, err)
	return b, api
}

func commandMessage(chatID int64, command string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     "/" + command,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}},
	}
}

func callbackQuery(chatID int64, messageID int, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

// tap presses a button on the current screen
func tap(t *testing.T, b *Bot, data string) {
	t.Helper()
	require.NoError(t, b.HandleCallback(context.Background(), callbackQuery(testChatID, b.screenID, data)))
}

func TestQuizCommandSendsQuestionScreen(t *testing.T) {
	b, api := newTestBot(t)

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	msg, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, testChatID, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Question 1/5")
	assert.Contains(t, msg.Text, "Score: 0")

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 5)
	assert.Equal(t, 1, b.screenID)
	assert.Equal(t, testChatID, b.chatID)
}

func TestStartCommandSendsWelcomeAndScreen(t *testing.T) {
	b, api := newTestBot(t)

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "start")))

	assert.Equal(t, 2, api.sentCount())
	assert.Equal(t, 2, b.screenID)
}

func TestSelectAndAdvanceEditsScreen(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	tap(t, b, selectData(b.runID, 0, 3))
	edit := api.lastEdit(t)
	assert.Equal(t, 1, edit.MessageID)
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "🔘 JavaScript", edit.ReplyMarkup.InlineKeyboard[3][0].Text)
	assert.Equal(t, "⚪ Java", edit.ReplyMarkup.InlineKeyboard[0][0].Text)

	tap(t, b, actionData(actionNext, b.runID))
	edit = api.lastEdit(t)
	assert.Contains(t, edit.Text, "Question 2/5")
	assert.Contains(t, edit.Text, "Score: 1")
	assert.Equal(t, "", api.lastCallback(t).Text)
}

func TestSelectingSameOptionAgainSkipsEdit(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	tap(t, b, selectData(b.runID, 0, 2))
	sent := api.sentCount()

	tap(t, b, selectData(b.runID, 0, 2))

	assert.Equal(t, sent, api.sentCount())
	assert.Equal(t, "", api.lastCallback(t).Text)
	selected, ok := b.session.Selection()
	assert.True(t, ok)
	assert.Equal(t, 2, selected)

	tap(t, b, selectData(b.runID, 0, 1))
	assert.Equal(t, sent+1, api.sentCount())
}

func TestNextWithoutSelectionShowsAlert(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))
	sent := api.sentCount()

	tap(t, b, actionData(actionNext, b.runID))

	callback := api.lastCallback(t)
	assert.True(t, callback.ShowAlert)
	assert.Equal(t, textChooseAnswer, callback.Text)
	assert.Equal(t, sent, api.sentCount())
	assert.Equal(t, 0, b.session.CurrentIndex())
}

func TestStaleButtonsAreRejected(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))
	oldRun := b.runID

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "restart")))
	require.NotEqual(t, oldRun, b.runID)
	require.Equal(t, 2, b.screenID)

	tests := []struct {
		name      string
		messageID int
		data      string
	}{
		{name: "previous run", messageID: 2, data: selectData(oldRun, 0, 1)},
		{name: "previous message", messageID: 1, data: selectData(b.runID, 0, 1)},
		{name: "previous question", messageID: 2, data: selectData(b.runID, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, b.HandleCallback(context.Background(), callbackQuery(testChatID, tt.messageID, tt.data)))
			assert.Equal(t, textOutdated, api.lastCallback(t).Text)
			_, selected := b.session.Selection()
			assert.False(t, selected)
		})
	}
}

func TestMalformedCallbackIsAnswered(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	err := b.HandleCallback(context.Background(), callbackQuery(testChatID, 1, "bogus"))
	assert.ErrorIs(t, err, errBadCallback)
	assert.Equal(t, "cb", api.lastCallback(t).CallbackQueryID)
}

func TestOtherChatIsRejected(t *testing.T) {
	api := newFakeAPI()
	cfg := DefaultConfig()
	cfg.SchedulerEnabled = false
	cfg.OwnerChatID = testChatID
	b, err := newBot(api, cfg, quiz.DefaultQuestions())
	require.NoError(t, err)

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(200, "quiz")))

	msg, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(200), msg.ChatID)
	assert.Equal(t, textBusy, msg.Text)
	assert.Equal(t, testChatID, b.chatID)
	assert.Equal(t, 0, b.screenID)
}

func TestFinishReviewAndExport(t *testing.T) {
	b, api := newTestBot(t)
	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	for i, pick := range []int{3, 2, 1, 0, 2} {
		tap(t, b, selectData(b.runID, i, pick))
		tap(t, b, actionData(actionNext, b.runID))
	}

	edit := api.lastEdit(t)
	assert.Contains(t, edit.Text, "Quiz finished!")
	assert.Contains(t, edit.Text, "Your score: <b>4/5</b>")
	assert.NotContains(t, edit.Text, "Review")

	tap(t, b, actionData(actionReview, b.runID))
	edit = api.lastEdit(t)
	assert.Contains(t, edit.Text, "<b>Review</b>")
	assert.Contains(t, edit.Text, "&lt;ol&gt; (<i>Your pick</i>)")
	assert.Contains(t, edit.Text, "&lt;ul&gt; (<i>Correct</i>)")
	assert.Equal(t, "🙈 Hide review", edit.ReplyMarkup.InlineKeyboard[0][0].Text)

	tap(t, b, actionData(actionExport, b.runID))
	doc, ok := api.lastSent(t).(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, testChatID, doc.ChatID)
	assert.Equal(t, "Quiz review: 4/5 correct", doc.Caption)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "quiz-review.xlsx", file.Name)
	assert.NotEmpty(t, file.Bytes)

	tap(t, b, actionData(actionRestart, b.runID))
	assert.Contains(t, api.lastEdit(t).Text, "Question 1/5")
	assert.False(t, b.session.Finished())
}

func TestReviewAndExportBeforeFinish(t *testing.T) {
	b, api := newTestBot(t)

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "export")))
	msg, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, textFinishFirst, msg.Text)

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "review")))
	msg, ok = api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, textFinishFirst, msg.Text)
	assert.False(t, b.session.ReviewVisible())
}

func TestResetIfIdle(t *testing.T) {
	b, api := newTestBot(t)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return start }

	require.NoError(t, b.HandleCommand(context.Background(), commandMessage(testChatID, "quiz")))

	reset, err := b.ResetIfIdle(start.Add(13*time.Hour), 12*time.Hour)
	require.NoError(t, err)
	assert.False(t, reset, "untouched session stays")

	tap(t, b, selectData(b.runID, 0, 1))
	runID := b.runID

	reset, err = b.ResetIfIdle(start.Add(time.Hour), 12*time.Hour)
	require.NoError(t, err)
	assert.False(t, reset, "recent activity")

	reset, err = b.ResetIfIdle(start.Add(13*time.Hour), 12*time.Hour)
	require.NoError(t, err)
	assert.True(t, reset)
	assert.NotEqual(t, runID, b.runID)
	assert.False(t, b.session.Started())
	assert.Contains(t, api.lastEdit(t).Text, "Question 1/5")
}

func TestStartHandlesUpdatesUntilClosed(t *testing.T) {
	b, api := newTestBot(t)

	api.updates <- tgbotapi.Update{Message: commandMessage(testChatID, "quiz")}
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testChatID}, Text: "hello"}}
	close(api.updates)

	require.NoError(t, b.Start(context.Background()))
	assert.Equal(t, 2, api.sentCount())

	msg, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "/quiz")
}

func TestStartStopsOnCancel(t *testing.T) {
	b, api := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Start(ctx), context.Canceled)

	require.NoError(t, b.Stop(context.Background()))
	assert.True(t, api.stopped)
}

func TestNewBotRejectsEmptyQuestionSet(t *testing.T) {
	_, err := newBot(newFakeAPI(), DefaultConfig(), nil)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}

func TestLoadQuestions(t *testing.T) {
	cfg := DefaultConfig()
	questions, err := loadQuestions(cfg)
	require.NoError(t, err)
	assert.Equal(t, quiz.DefaultQuestions(), questions)

	cfg.QuestionsFile = filepath.Join(t.TempDir(), "questions.csv")
	require.NoError(t, os.WriteFile(cfg.QuestionsFile, []byte("id,prompt,correct,a,b\nx1,Pick b,2,a,b\n"), 0o600))
	questions, err = loadQuestions(cfg)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "x1", questions[0].ID)
	assert.Equal(t, 1, questions[0].CorrectIndex)
}
