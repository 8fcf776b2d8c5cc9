package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
	"github.com/abutolibrashidov/vocabbot/internal/quiz"
	"github.com/abutolibrashidov/vocabbot/internal/store"
	"github.com/abutolibrashidov/vocabbot/internal/translator"
)

// BotName is the public display name used in the /start greeting.
const BotName = "Vocabulary with Mr. Korsh"

// Conversational texts.
const (
	textAskWord        = "Please enter the word to translate (English or Uzbek):"
	textNoTopics       = "No phrase topics found."
	textPickTopic      = "Select a phrase topic:"
	textTopicNotFound  = "Topic not found."
	textQuizUnbuild    = "Could not build a quiz right now. Try later."
	textPhraseShape    = "🗣 Phrase from *%s*:\n\n👉 %s"
	textGreetingShape  = "Hello %s! 👋\nWelcome to *%s*!"
	textPlainCardShape = "📝 Word: *%s*\n🔤 Translation: *%s*"
)

// WordLookup resolves words that are missing from the local dictionary.
type WordLookup interface {
	Lookup(ctx context.Context, word string) (translator.Result, error)
}

// QuizEngine is the slice of the quiz session engine the orchestrator
// drives.
type QuizEngine interface {
	Start(ctx context.Context, userID string) error
	Answer(ctx context.Context, userID, externalID string, chosenIndex *int) error
}

// QuotaGate admits or rejects automatic quiz dispatches.
type QuotaGate interface {
	Allow(ctx context.Context, userID string) error
}

// Service routes inbound chat events: menu presses, free-text word
// lookups, phrase topic callbacks, and quiz commands. Explicit quiz
// requests bypass the daily quota; lookups and phrase reads go through
// it before nudging the user with an automatic quiz.
type Service struct {
	users     store.UserStore
	provider  content.Provider
	lookup    WordLookup
	quizzes   QuizEngine
	gate      QuotaGate
	messenger Messenger
	logger    *slog.Logger

	// pick selects a phrase index; replaced in tests.
	pick func(n int) int
}

// NewService creates the orchestrator.
// It returns an error if any required dependency is nil.
func NewService(
	users store.UserStore,
	provider content.Provider,
	lookup WordLookup,
	quizzes QuizEngine,
	gate QuotaGate,
	messenger Messenger,
	log *slog.Logger,
) (*Service, error) {
	if users == nil {
		return nil, errors.New("bot: service requires a user store")
	}
	if provider == nil {
		return nil, errors.New("bot: service requires a content provider")
	}
	if lookup == nil {
		return nil, errors.New("bot: service requires a word lookup")
	}
	if quizzes == nil {
		return nil, errors.New("bot: service requires a quiz engine")
	}
	if gate == nil {
		return nil, errors.New("bot: service requires a quota gate")
	}
	if messenger == nil {
		return nil, errors.New("bot: service requires a messenger")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:     users,
		provider:  provider,
		lookup:    lookup,
		quizzes:   quizzes,
		gate:      gate,
		messenger: messenger,
		logger:    log.With(slog.String("component", "bot")),
		pick:      rand.Intn,
	}, nil
}

// HandleStart greets a (possibly first-seen) user and shows the menu.
func (s *Service) HandleStart(ctx context.Context, userID, displayName, firstName string) error {
	if err := s.users.Ensure(ctx, userID, displayName); err != nil {
		return fmt.Errorf("ensuring user %s: %w", userID, err)
	}
	name := firstName
	if name == "" {
		name = "there"
	}
	return s.messenger.SendMenu(ctx, userID, fmt.Sprintf(textGreetingShape, name, BotName))
}

// HandleQuizCommand starts a quiz on explicit request, bypassing the
// daily quota.
func (s *Service) HandleQuizCommand(ctx context.Context, userID, displayName string) error {
	if err := s.users.Ensure(ctx, userID, displayName); err != nil {
		return fmt.Errorf("ensuring user %s: %w", userID, err)
	}
	return s.startQuiz(ctx, userID)
}

// HandleMessage routes free-form text: menu buttons get their flows and
// anything else is treated as a word to look up.
func (s *Service) HandleMessage(ctx context.Context, userID, displayName, text string) error {
	if err := s.users.Ensure(ctx, userID, displayName); err != nil {
		return fmt.Errorf("ensuring user %s: %w", userID, err)
	}

	switch strings.TrimSpace(text) {
	case MenuTranslate:
		return s.messenger.SendText(ctx, userID, textAskWord)
	case MenuPhrase:
		return s.offerTopics(ctx, userID)
	case MenuQuiz:
		return s.startQuiz(ctx, userID)
	case "":
		return nil
	default:
		return s.lookupWord(ctx, userID, strings.TrimSpace(text))
	}
}

// HandlePhraseTopic serves one random phrase from the topic the user
// tapped, records the read, and may nudge with an automatic quiz.
func (s *Service) HandlePhraseTopic(ctx context.Context, userID, topic string) error {
	phrases := s.provider.Phrases(ctx)
	pool, ok := phrases[topic]
	if !ok || len(pool) == 0 {
		return s.messenger.SendText(ctx, userID, textTopicNotFound)
	}

	phrase := pool[s.pick(len(pool))]
	if err := s.messenger.SendText(ctx, userID, fmt.Sprintf(textPhraseShape, topic, phrase)); err != nil {
		return fmt.Errorf("sending phrase to user %s: %w", userID, err)
	}

	if err := s.users.RecordUsage(ctx, userID, "phrase:"+topic); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record phrase usage",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	s.nudgeQuiz(ctx, userID)
	return nil
}

// HandleAnswer forwards a poll answer event into the quiz engine.
// Unknown and stale answers are dropped silently, matching how poll
// platforms redeliver events.
func (s *Service) HandleAnswer(ctx context.Context, userID, externalID string, chosenIndex *int) error {
	err := s.quizzes.Answer(ctx, userID, externalID, chosenIndex)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, quiz.ErrUnknownCorrelation),
		errors.Is(err, quiz.ErrStaleAnswer),
		errors.Is(err, quiz.ErrNoSession):
		logger.FromContextOrDefault(ctx, s.logger).Debug("dropped answer event",
			slog.String("user_id", userID),
			slog.String("external_id", externalID),
			slog.String("reason", err.Error()))
		return nil
	default:
		return err
	}
}

func (s *Service) offerTopics(ctx context.Context, userID string) error {
	topics := s.provider.Phrases(ctx).Topics()
	if len(topics) == 0 {
		return s.messenger.SendText(ctx, userID, textNoTopics)
	}
	sort.Strings(topics)
	return s.messenger.SendTopicPicker(ctx, userID, textPickTopic, topics)
}

func (s *Service) lookupWord(ctx context.Context, userID, word string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card string
	if info, ok := s.provider.Words(ctx).Lookup(word); ok {
		translation := info.Translation
		if translation == "" {
			translation = word
		}
		card = formatWordCard(word, translation, info)
	} else if res, err := s.lookup.Lookup(ctx, word); err == nil {
		card = formatLookupCard(word, res.Definition, res.PartOfSpeech, res.Synonyms)
	} else {
		log.Debug("word lookup failed, echoing word",
			slog.String("word", word),
			slog.String("error", err.Error()))
		card = fmt.Sprintf(textPlainCardShape, word, word)
	}

	if err := s.users.RecordUsage(ctx, userID, word); err != nil {
		log.Warn("failed to record lookup usage",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	if err := s.messenger.SendMenu(ctx, userID, card); err != nil {
		return fmt.Errorf("sending word card to user %s: %w", userID, err)
	}

	s.nudgeQuiz(ctx, userID)
	return nil
}

func (s *Service) startQuiz(ctx context.Context, userID string) error {
	err := s.quizzes.Start(ctx, userID)
	if errors.Is(err, quiz.ErrQuizUnavailable) {
		return s.messenger.SendText(ctx, userID, textQuizUnbuild)
	}
	return err
}

// nudgeQuiz starts an automatic quiz if the daily quota still admits
// one. Quota exhaustion and dispatch failures never surface to the
// interaction that triggered the nudge.
func (s *Service) nudgeQuiz(ctx context.Context, userID string) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.gate.Allow(ctx, userID)
	if errors.Is(err, quiz.ErrQuotaExceeded) {
		return
	}
	if err != nil {
		log.Warn("quota check failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}

	if err := s.quizzes.Start(ctx, userID); err != nil {
		log.Warn("automatic quiz dispatch failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}
