package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abutolibrashidov/vocabbot/internal/domain"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// Gate rate limits automatically initiated quizzes to a fixed number per
// user per calendar day. The day boundary is evaluated lazily in UTC on
// each admission check; no background reset runs.
type Gate struct {
	users  store.UserStore
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// NewGate creates a Gate admitting up to limit quizzes per day.
// It returns an error if users is nil or limit is not positive.
func NewGate(users store.UserStore, limit int, log *slog.Logger) (*Gate, error) {
	if users == nil {
		return nil, errors.New("quiz: gate requires a user store")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("quiz: daily limit must be positive, got %d", limit)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gate{
		users:  users,
		limit:  limit,
		logger: log.With(slog.String("component", "quota_gate")),
		now:    time.Now,
	}, nil
}

// Allow admits one automatic quiz for the user, counting it against
// today's quota. Returns ErrQuotaExceeded when the user is already at
// the daily limit and store.ErrUserNotFound for unknown identities.
func (g *Gate) Allow(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, g.logger)
	today := g.now().UTC().Format(domain.DateLayout)

	err := g.users.Mutate(ctx, userID, func(rec *domain.UserRecord) error {
		if !rec.AllowQuiz(today, g.limit) {
			return ErrQuotaExceeded
		}
		return nil
	})
	if errors.Is(err, ErrQuotaExceeded) {
		log.Debug("daily quiz quota exhausted",
			slog.String("user_id", userID),
			slog.Int("limit", g.limit))
		return ErrQuotaExceeded
	}
	if err != nil {
		return fmt.Errorf("checking quiz quota for user %s: %w", userID, err)
	}
	return nil
}
