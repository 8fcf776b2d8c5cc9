package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abutolibrashidov/vocabbot/internal/bot"
	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/platform/memory"
	"github.com/abutolibrashidov/vocabbot/internal/translator"
)

type stubProvider struct {
	phrases content.PhraseDictionary
}

func (p stubProvider) Words(context.Context) content.WordDictionary     { return nil }
func (p stubProvider) Phrases(context.Context) content.PhraseDictionary { return p.phrases }

type stubLookup struct{}

func (stubLookup) Lookup(context.Context, string) (translator.Result, error) {
	return translator.Result{}, translator.ErrLookupFailed
}

type stubQuiz struct {
	started  []string
	answered []string
}

func (q *stubQuiz) Start(_ context.Context, userID string) error {
	q.started = append(q.started, userID)
	return nil
}

func (q *stubQuiz) Answer(_ context.Context, userID, externalID string, _ *int) error {
	q.answered = append(q.answered, userID+":"+externalID)
	return nil
}

type openGate struct{}

func (openGate) Allow(context.Context, string) error { return nil }

func newTestDispatcher(t *testing.T) (*Dispatcher, *stubQuiz, *fakeSender) {
	t.Helper()
	api := &fakeSender{pollID: "p1"}
	channel, err := NewChannel(api, nil)
	require.NoError(t, err)

	quizzes := &stubQuiz{}
	svc, err := bot.NewService(
		memory.NewUserStore(),
		stubProvider{phrases: content.PhraseDictionary{"greetings": {"Assalomu alaykum"}}},
		stubLookup{},
		quizzes,
		openGate{},
		channel,
		nil,
	)
	require.NoError(t, err)

	return NewDispatcher(svc, api, nil), quizzes, api
}

func messageUpdate(text string, entities []tgbotapi.MessageEntity) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Text:     text,
			Entities: entities,
			From:     &tgbotapi.User{ID: 42, UserName: "aziza_k", FirstName: "Aziza"},
			Chat:     &tgbotapi.Chat{ID: 42},
		},
	}
}

func commandEntity(length int) []tgbotapi.MessageEntity {
	return []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
}

func TestDispatchStartCommand(t *testing.T) {
	d, _, api := newTestDispatcher(t)

	d.Dispatch(context.Background(), messageUpdate("/start", commandEntity(6)))

	require.Len(t, api.sent, 1)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "Hello Aziza!")
}

func TestDispatchQuizCommand(t *testing.T) {
	d, quizzes, _ := newTestDispatcher(t)

	d.Dispatch(context.Background(), messageUpdate("/quiz", commandEntity(5)))

	assert.Equal(t, []string{"42"}, quizzes.started)
}

func TestDispatchPhraseCallback(t *testing.T) {
	d, _, api := newTestDispatcher(t)

	d.Dispatch(context.Background(), tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			From: &tgbotapi.User{ID: 42},
			Data: "phrase:greetings",
		},
	})

	// The callback is acknowledged and the phrase is sent.
	require.NotEmpty(t, api.requests)
	require.NotEmpty(t, api.sent)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "Assalomu alaykum")
}

func TestDispatchPollAnswer(t *testing.T) {
	d, quizzes, _ := newTestDispatcher(t)

	d.Dispatch(context.Background(), tgbotapi.Update{
		UpdateID: 3,
		PollAnswer: &tgbotapi.PollAnswer{
			PollID:    "poll-7",
			User:      tgbotapi.User{ID: 42},
			OptionIDs: []int{2},
		},
	})

	assert.Equal(t, []string{"42:poll-7"}, quizzes.answered)
}

func TestDispatchIgnoresUnknownUpdates(t *testing.T) {
	d, quizzes, api := newTestDispatcher(t)

	d.Dispatch(context.Background(), tgbotapi.Update{UpdateID: 4})

	assert.Empty(t, quizzes.started)
	assert.Empty(t, api.sent)
}
