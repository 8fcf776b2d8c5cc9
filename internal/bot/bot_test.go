package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/platform/memory"
	"github.com/abutolibrashidov/vocabbot/internal/quiz"
	"github.com/abutolibrashidov/vocabbot/internal/translator"
)

type sentMessage struct {
	userID string
	text   string
	kind   string // "text", "menu", "topics"
	topics []string
}

type fakeMessenger struct {
	sent []sentMessage
}

func (m *fakeMessenger) SendText(_ context.Context, userID, text string) error {
	m.sent = append(m.sent, sentMessage{userID: userID, text: text, kind: "text"})
	return nil
}

func (m *fakeMessenger) SendMenu(_ context.Context, userID, text string) error {
	m.sent = append(m.sent, sentMessage{userID: userID, text: text, kind: "menu"})
	return nil
}

func (m *fakeMessenger) SendTopicPicker(_ context.Context, userID, text string, topics []string) error {
	m.sent = append(m.sent, sentMessage{userID: userID, text: text, kind: "topics", topics: topics})
	return nil
}

func (m *fakeMessenger) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type fakeQuiz struct {
	started   []string
	answered  []string
	startErr  error
	answerErr error
}

func (q *fakeQuiz) Start(_ context.Context, userID string) error {
	if q.startErr != nil {
		return q.startErr
	}
	q.started = append(q.started, userID)
	return nil
}

func (q *fakeQuiz) Answer(_ context.Context, userID, externalID string, _ *int) error {
	if q.answerErr != nil {
		return q.answerErr
	}
	q.answered = append(q.answered, externalID)
	return nil
}

type fakeGate struct {
	err   error
	calls int
}

func (g *fakeGate) Allow(context.Context, string) error {
	g.calls++
	return g.err
}

type fakeLookup struct {
	result translator.Result
	err    error
}

func (l fakeLookup) Lookup(context.Context, string) (translator.Result, error) {
	return l.result, l.err
}

type staticProvider struct {
	words   content.WordDictionary
	phrases content.PhraseDictionary
}

func (p staticProvider) Words(context.Context) content.WordDictionary     { return p.words }
func (p staticProvider) Phrases(context.Context) content.PhraseDictionary { return p.phrases }

type botFixture struct {
	users     *memory.UserStore
	messenger *fakeMessenger
	quizzes   *fakeQuiz
	gate      *fakeGate
	lookup    *fakeLookup
	service   *Service
}

func newBotFixture(t *testing.T, words content.WordDictionary, phrases content.PhraseDictionary) *botFixture {
	t.Helper()
	f := &botFixture{
		users:     memory.NewUserStore(),
		messenger: &fakeMessenger{},
		quizzes:   &fakeQuiz{},
		gate:      &fakeGate{},
		lookup:    &fakeLookup{err: translator.ErrLookupFailed},
	}
	svc, err := NewService(
		f.users,
		staticProvider{words: words, phrases: phrases},
		f.lookup,
		f.quizzes,
		f.gate,
		f.messenger,
		nil,
	)
	require.NoError(t, err)
	svc.pick = func(int) int { return 0 }
	f.service = svc
	return f
}

func sampleWords() content.WordDictionary {
	return content.WordDictionary{
		"mushuk": {
			Translation:  "cat",
			PartOfSpeech: "noun",
			Level:        "A1",
			Examples:     []string{"Mushuk sut ichadi."},
			Synonyms:     []string{"kitty"},
		},
	}
}

func samplePhrases() content.PhraseDictionary {
	return content.PhraseDictionary{
		"greetings": {"Assalomu alaykum"},
		"travel":    {"Chipta qancha turadi?"},
	}
}

func TestHandleStartGreetsAndRegisters(t *testing.T) {
	f := newBotFixture(t, sampleWords(), samplePhrases())
	ctx := context.Background()

	require.NoError(t, f.service.HandleStart(ctx, "u1", "aziza_k", "Aziza"))

	msg := f.messenger.last(t)
	assert.Equal(t, "menu", msg.kind)
	assert.Contains(t, msg.text, "Hello Aziza!")
	assert.Contains(t, msg.text, BotName)

	rec, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "aziza_k", rec.DisplayName)
}

func TestHandleStartWithoutFirstName(t *testing.T) {
	f := newBotFixture(t, nil, nil)

	require.NoError(t, f.service.HandleStart(context.Background(), "u1", "", ""))

	assert.Contains(t, f.messenger.last(t).text, "Hello there!")
}

func TestMenuTranslatePromptsForWord(t *testing.T) {
	f := newBotFixture(t, sampleWords(), nil)

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", MenuTranslate))

	msg := f.messenger.last(t)
	assert.Equal(t, "text", msg.kind)
	assert.Equal(t, textAskWord, msg.text)
}

func TestMenuPhraseOffersSortedTopics(t *testing.T) {
	f := newBotFixture(t, nil, samplePhrases())

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", MenuPhrase))

	msg := f.messenger.last(t)
	assert.Equal(t, "topics", msg.kind)
	assert.Equal(t, []string{"greetings", "travel"}, msg.topics)
}

func TestMenuPhraseWithoutTopics(t *testing.T) {
	f := newBotFixture(t, nil, nil)

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", MenuPhrase))

	assert.Equal(t, textNoTopics, f.messenger.last(t).text)
}

func TestMenuQuizBypassesQuota(t *testing.T) {
	f := newBotFixture(t, sampleWords(), samplePhrases())
	f.gate.err = quiz.ErrQuotaExceeded

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", MenuQuiz))

	assert.Equal(t, []string{"u1"}, f.quizzes.started)
	assert.Zero(t, f.gate.calls, "explicit request must not consult the gate")
}

func TestQuizCommandReportsUnavailableContent(t *testing.T) {
	f := newBotFixture(t, nil, nil)
	f.quizzes.startErr = quiz.ErrQuizUnavailable

	require.NoError(t, f.service.HandleQuizCommand(context.Background(), "u1", ""))

	assert.Equal(t, textQuizUnbuild, f.messenger.last(t).text)
}

func TestLookupKnownWordSendsRichCard(t *testing.T) {
	f := newBotFixture(t, sampleWords(), nil)
	ctx := context.Background()

	require.NoError(t, f.service.HandleMessage(ctx, "u1", "", "Mushuk"))

	msg := f.messenger.last(t)
	assert.Equal(t, "menu", msg.kind)
	assert.Contains(t, msg.text, "📝 Word: *Mushuk*")
	assert.Contains(t, msg.text, "🔤 Translation: *cat*")
	assert.Contains(t, msg.text, "📚 Part of Speech: noun")
	assert.Contains(t, msg.text, "⭐ Level: A1")
	assert.Contains(t, msg.text, "Mushuk sut ichadi.")
	assert.Contains(t, msg.text, "💡 Synonyms: kitty")

	rec, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.History, 1)
	assert.Equal(t, "Mushuk", rec.History[0].Item)
}

func TestLookupUnknownWordUsesExternalLookup(t *testing.T) {
	f := newBotFixture(t, nil, nil)
	f.lookup.result = translator.Result{
		Word:         "serendipity",
		Definition:   "a happy accident",
		PartOfSpeech: "noun",
		Synonyms:     []string{"fluke", "luck"},
	}
	f.lookup.err = nil

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", "serendipity"))

	msg := f.messenger.last(t)
	assert.Contains(t, msg.text, "🔤 Translation: *a happy accident*")
	assert.Contains(t, msg.text, "💡 Synonyms: fluke, luck")
}

func TestLookupTotalFailureEchoesWord(t *testing.T) {
	f := newBotFixture(t, nil, nil)

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", "qwzx"))

	msg := f.messenger.last(t)
	assert.Contains(t, msg.text, "📝 Word: *qwzx*")
	assert.Contains(t, msg.text, "🔤 Translation: *qwzx*")
}

func TestLookupNudgesAutomaticQuiz(t *testing.T) {
	f := newBotFixture(t, sampleWords(), nil)

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", "mushuk"))

	assert.Equal(t, 1, f.gate.calls)
	assert.Equal(t, []string{"u1"}, f.quizzes.started)
}

func TestLookupSkipsNudgeWhenQuotaExhausted(t *testing.T) {
	f := newBotFixture(t, sampleWords(), nil)
	f.gate.err = quiz.ErrQuotaExceeded

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", "mushuk"))

	assert.Empty(t, f.quizzes.started)
}

func TestPhraseTopicSendsPhraseAndRecordsUsage(t *testing.T) {
	f := newBotFixture(t, nil, samplePhrases())
	ctx := context.Background()
	require.NoError(t, f.users.Ensure(ctx, "u1", ""))

	require.NoError(t, f.service.HandlePhraseTopic(ctx, "u1", "greetings"))

	found := false
	for _, msg := range f.messenger.sent {
		if msg.kind == "text" && msg.text == "🗣 Phrase from *greetings*:\n\n👉 Assalomu alaykum" {
			found = true
		}
	}
	assert.True(t, found, "phrase message must be sent")

	rec, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.History, 1)
	assert.Equal(t, "phrase:greetings", rec.History[0].Item)
	assert.Equal(t, 1, f.gate.calls)
}

func TestPhraseTopicUnknown(t *testing.T) {
	f := newBotFixture(t, nil, samplePhrases())

	require.NoError(t, f.service.HandlePhraseTopic(context.Background(), "u1", "cooking"))

	assert.Equal(t, textTopicNotFound, f.messenger.last(t).text)
	assert.Zero(t, f.gate.calls)
}

func TestHandleAnswerForwardsToEngine(t *testing.T) {
	f := newBotFixture(t, nil, nil)
	chosen := 2

	require.NoError(t, f.service.HandleAnswer(context.Background(), "u1", "poll-9", &chosen))

	assert.Equal(t, []string{"poll-9"}, f.quizzes.answered)
}

func TestHandleAnswerDropsUnmatchedEvents(t *testing.T) {
	f := newBotFixture(t, nil, nil)

	for _, sentinel := range []error{quiz.ErrUnknownCorrelation, quiz.ErrStaleAnswer, quiz.ErrNoSession} {
		f.quizzes.answerErr = sentinel
		assert.NoError(t, f.service.HandleAnswer(context.Background(), "u1", "poll-1", nil))
	}

	f.quizzes.answerErr = errors.New("store down")
	assert.Error(t, f.service.HandleAnswer(context.Background(), "u1", "poll-1", nil))
}

func TestEmptyMessageIsIgnored(t *testing.T) {
	f := newBotFixture(t, nil, nil)

	require.NoError(t, f.service.HandleMessage(context.Background(), "u1", "", "   "))

	assert.Empty(t, f.messenger.sent)
}
