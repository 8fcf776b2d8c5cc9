// Package task runs background quiz dispatch: the scheduled broadcast
// fans out over every known user with a bounded worker pool, respecting
// the per-user daily quota.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
	"github.com/abutolibrashidov/vocabbot/internal/quiz"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// QuizDispatcher starts a quiz session for one user.
type QuizDispatcher interface {
	Start(ctx context.Context, userID string) error
}

// QuotaGate admits or rejects automatic dispatches.
type QuotaGate interface {
	Allow(ctx context.Context, userID string) error
}

// Broadcaster dispatches quizzes to every known user. Each dispatch goes
// through the quota gate; users at their daily limit are skipped
// silently. Failures for one user never abort the rest of the run.
type Broadcaster struct {
	users   store.UserStore
	gate    QuotaGate
	quizzes QuizDispatcher
	workers int
	logger  *slog.Logger
}

// NewBroadcaster creates a broadcaster running workers concurrent
// dispatches. A non-positive worker count falls back to 1.
func NewBroadcaster(
	users store.UserStore,
	gate QuotaGate,
	quizzes QuizDispatcher,
	workers int,
	log *slog.Logger,
) (*Broadcaster, error) {
	if users == nil {
		return nil, errors.New("task: broadcaster requires a user store")
	}
	if gate == nil {
		return nil, errors.New("task: broadcaster requires a quota gate")
	}
	if quizzes == nil {
		return nil, errors.New("task: broadcaster requires a quiz dispatcher")
	}
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		log.Warn("invalid broadcast worker count, using 1",
			slog.Int("specified", workers))
		workers = 1
	}
	return &Broadcaster{
		users:   users,
		gate:    gate,
		quizzes: quizzes,
		workers: workers,
		logger:  log.With(slog.String("component", "broadcast")),
	}, nil
}

// Broadcast dispatches a quiz to every user the quota still admits and
// returns how many were sent. Cancelling the context stops feeding new
// users; in-flight dispatches run to completion.
func (b *Broadcaster) Broadcast(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, b.logger).With(
		slog.String("run_id", uuid.NewString()))

	ids, err := b.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing users for broadcast: %w", err)
	}
	if len(ids) == 0 {
		log.Warn("no users known, nothing to broadcast")
		return 0, nil
	}

	jobs := make(chan string)
	var sent atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				if b.dispatch(ctx, log, userID) {
					sent.Add(1)
				}
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	log.Info("broadcast finished",
		slog.Int("users", len(ids)),
		slog.Int64("sent", sent.Load()))
	return int(sent.Load()), ctx.Err()
}

// SendTo dispatches a quiz to a single user directly, bypassing the
// quota gate. Used by the explicitly targeted trigger endpoint.
func (b *Broadcaster) SendTo(ctx context.Context, userID string) error {
	return b.quizzes.Start(ctx, userID)
}

func (b *Broadcaster) dispatch(ctx context.Context, log *slog.Logger, userID string) bool {
	err := b.gate.Allow(ctx, userID)
	if errors.Is(err, quiz.ErrQuotaExceeded) {
		return false
	}
	if err != nil {
		log.Warn("quota check failed during broadcast",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return false
	}

	if err := b.quizzes.Start(ctx, userID); err != nil {
		log.Warn("broadcast dispatch failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
