package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// CorrelationStore implements the store.CorrelationStore interface using
// a PostgreSQL table keyed by the external event identifier.
type CorrelationStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCorrelationStore creates a new PostgreSQL implementation of the
// CorrelationStore interface.
func NewCorrelationStore(db *sql.DB, logger *slog.Logger) *CorrelationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CorrelationStore{
		db:     db,
		logger: logger.With(slog.String("component", "correlation_store")),
	}
}

// Ensure CorrelationStore implements store.CorrelationStore interface.
var _ store.CorrelationStore = (*CorrelationStore)(nil)

// Register implements store.CorrelationStore.Register. Re-registering an
// identifier moves it to the new owner; the delivery channel promises
// fresh identifiers so this only matters after a partial retry.
func (s *CorrelationStore) Register(ctx context.Context, externalID, userID string, questionIndex int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_correlations (external_id, user_id, question_index, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (external_id) DO UPDATE
			SET user_id = EXCLUDED.user_id, question_index = EXCLUDED.question_index, created_at = now()`,
		externalID, userID, questionIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to register correlation %s: %w", externalID, err)
	}
	return nil
}

// Resolve implements store.CorrelationStore.Resolve. The DELETE matches
// on both identifier and owner, so the lookup and the consume are a
// single atomic statement: two concurrent resolutions of the same
// identifier can never both succeed, and a foreign reporter neither
// resolves nor consumes the entry.
func (s *CorrelationStore) Resolve(ctx context.Context, externalID, reportingUserID string) (store.Correlation, error) {
	var entry store.Correlation
	err := s.db.QueryRowContext(ctx, `
		DELETE FROM poll_correlations
		WHERE external_id = $1 AND user_id = $2
		RETURNING external_id, user_id, question_index`,
		externalID, reportingUserID,
	).Scan(&entry.ExternalID, &entry.UserID, &entry.QuestionIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Correlation{}, store.ErrCorrelationNotFound
	}
	if err != nil {
		return store.Correlation{}, fmt.Errorf("failed to resolve correlation %s: %w", externalID, err)
	}
	return entry, nil
}
