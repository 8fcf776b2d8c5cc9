package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/domain"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// Feedback and summary texts sent between questions.
const (
	textCorrect      = "✅ Correct! 🎉"
	textWrongFormat  = "❌ Wrong — correct answer: *%s*"
	textFinished     = "✅ Quiz finished! Great job!"
	textSummaryShape = "You answered %d/%d correctly."
)

// Service drives quiz sessions: it builds questions from content,
// persists session state one step at a time, and emits questions and
// feedback through the delivery channel. State is always persisted
// before the corresponding question is emitted, so a crash between the
// two leaves a recoverable session rather than an answered-but-lost one.
type Service struct {
	users        store.UserStore
	correlations store.CorrelationStore
	provider     content.Provider
	builder      *Builder
	channel      Channel
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates the session engine.
// It returns an error if any required dependency is nil.
func NewService(
	users store.UserStore,
	correlations store.CorrelationStore,
	provider content.Provider,
	builder *Builder,
	channel Channel,
	log *slog.Logger,
) (*Service, error) {
	if users == nil {
		return nil, errors.New("quiz: service requires a user store")
	}
	if correlations == nil {
		return nil, errors.New("quiz: service requires a correlation store")
	}
	if provider == nil {
		return nil, errors.New("quiz: service requires a content provider")
	}
	if builder == nil {
		return nil, errors.New("quiz: service requires a question builder")
	}
	if channel == nil {
		return nil, errors.New("quiz: service requires a delivery channel")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:        users,
		correlations: correlations,
		provider:     provider,
		builder:      builder,
		channel:      channel,
		logger:       log.With(slog.String("component", "quiz_service")),
		now:          time.Now,
	}, nil
}

// Start builds a fresh session for the user, replacing any unfinished
// one, persists it, and emits the first question. Returns
// ErrQuizUnavailable when no questions can be built from the current
// content and store.ErrUserNotFound for unknown identities.
func (s *Service) Start(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	words := s.provider.Words(ctx)
	phrases := s.provider.Phrases(ctx)
	questions := s.builder.Build(words, phrases)
	if len(questions) == 0 {
		log.Warn("no quiz questions could be built",
			slog.Int("word_count", len(words)),
			slog.Int("phrase_topics", len(phrases)))
		return ErrQuizUnavailable
	}

	sess, err := domain.NewSession(questions)
	if err != nil {
		return fmt.Errorf("assembling session: %w", err)
	}

	err = s.users.Mutate(ctx, userID, func(rec *domain.UserRecord) error {
		if rec.CurrentSession != nil && !rec.CurrentSession.Finished() {
			log.Debug("discarding unfinished session",
				slog.String("user_id", userID),
				slog.Int("answered", rec.CurrentSession.Index),
				slog.Int("total", len(rec.CurrentSession.Questions)))
		}
		rec.CurrentSession = sess
		rec.RecordUsage("quiz_sent", s.now().UTC())
		return nil
	})
	if err != nil {
		return fmt.Errorf("persisting new session for user %s: %w", userID, err)
	}

	log.Info("quiz session started",
		slog.String("user_id", userID),
		slog.Int("questions", len(questions)))

	return s.emitCurrent(ctx, userID, sess)
}

// Answer applies an answer event to the user's session. The external
// identifier is resolved to the question it was emitted for; answers
// that do not match a pending question return ErrUnknownCorrelation,
// and answers for a question the session already moved past return
// ErrStaleAnswer. On success the user receives feedback and either the
// next question or the final summary.
func (s *Service) Answer(ctx context.Context, userID, externalID string, chosenIndex *int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := s.correlations.Resolve(ctx, externalID, userID)
	if errors.Is(err, store.ErrCorrelationNotFound) {
		log.Debug("answer event with no pending question",
			slog.String("user_id", userID),
			slog.String("external_id", externalID))
		return ErrUnknownCorrelation
	}
	if err != nil {
		return fmt.Errorf("resolving answer correlation: %w", err)
	}

	var (
		answered domain.Question
		result   domain.Result
		next     *domain.Session
		correct  int
		total    int
		finished bool
	)
	err = s.users.Mutate(ctx, userID, func(rec *domain.UserRecord) error {
		if rec.CurrentSession == nil {
			return ErrNoSession
		}
		r, answerErr := rec.CurrentSession.Answer(entry.QuestionIndex, chosenIndex)
		if errors.Is(answerErr, domain.ErrIndexMismatch) {
			return ErrStaleAnswer
		}
		if answerErr != nil {
			return answerErr
		}
		answered = rec.CurrentSession.Questions[entry.QuestionIndex]
		result = r
		finished = rec.CurrentSession.Finished()
		if finished {
			correct = rec.CurrentSession.CorrectCount()
			total = len(rec.CurrentSession.Results)
			rec.CurrentSession = nil
		} else {
			next = rec.CurrentSession
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoSession) || errors.Is(err, ErrStaleAnswer) {
			return err
		}
		return fmt.Errorf("recording answer for user %s: %w", userID, err)
	}

	if err := s.sendFeedback(ctx, userID, answered, result); err != nil {
		log.Warn("failed to send answer feedback",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	if finished {
		log.Info("quiz session finished",
			slog.String("user_id", userID),
			slog.Int("correct", correct),
			slog.Int("total", total))
		return s.sendSummary(ctx, userID, correct, total)
	}
	return s.emitCurrent(ctx, userID, next)
}

// emitCurrent sends the session's current question and registers the
// returned external identifier for later answer correlation.
func (s *Service) emitCurrent(ctx context.Context, userID string, sess *domain.Session) error {
	q, err := sess.Current()
	if err != nil {
		return fmt.Errorf("fetching current question: %w", err)
	}

	externalID, err := s.channel.EmitQuestion(ctx, userID, q.Prompt, q.Options, q.CorrectIndex)
	if err != nil {
		return fmt.Errorf("emitting question to user %s: %w", userID, err)
	}

	if err := s.correlations.Register(ctx, externalID, userID, sess.Index); err != nil {
		return fmt.Errorf("registering answer correlation %s: %w", externalID, err)
	}
	return nil
}

func (s *Service) sendFeedback(ctx context.Context, userID string, q domain.Question, result domain.Result) error {
	if result.Correct {
		return s.channel.EmitMessage(ctx, userID, textCorrect)
	}
	return s.channel.EmitMessage(ctx, userID, fmt.Sprintf(textWrongFormat, q.CorrectOption()))
}

func (s *Service) sendSummary(ctx context.Context, userID string, correct, total int) error {
	if err := s.channel.EmitMessage(ctx, userID, textFinished); err != nil {
		return fmt.Errorf("sending finish message to user %s: %w", userID, err)
	}
	if err := s.channel.EmitMessage(ctx, userID, fmt.Sprintf(textSummaryShape, correct, total)); err != nil {
		return fmt.Errorf("sending summary to user %s: %w", userID, err)
	}
	return nil
}
