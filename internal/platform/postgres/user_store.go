package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abutolibrashidov/vocabbot/internal/domain"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection that should be initialized
// and managed by the caller. If logger is nil, a default logger is used.
func NewUserStore(db *sql.DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface.
var _ store.UserStore = (*UserStore)(nil)

// Ensure implements store.UserStore.Ensure. Re-creating an existing
// record is a no-op; the stored display name is never overwritten.
func (s *UserStore) Ensure(ctx context.Context, id, displayName string) error {
	rec, err := domain.NewUserRecord(id, displayName)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	history, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, usage_count, history, last_quiz_date, quizzes_today, current_session, created_at, updated_at)
		VALUES ($1, $2, 0, $3, '', 0, NULL, $4, $4)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.DisplayName, history, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", id, err)
	}
	return nil
}

// Get implements store.UserStore.Get.
func (s *UserStore) Get(ctx context.Context, id string) (*domain.UserRecord, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, display_name, usage_count, history, last_quiz_date, quizzes_today, current_session, created_at, updated_at
		FROM users WHERE id = $1`, id))
}

// ListIDs implements store.UserStore.ListIDs.
func (s *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return ids, nil
}

// Mutate implements store.UserStore.Mutate. The record row is locked with
// SELECT ... FOR UPDATE for the duration of fn, which serializes
// concurrent mutations to the same user without blocking other users.
func (s *UserStore) Mutate(ctx context.Context, id string, fn func(*domain.UserRecord) error) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		rec, err := scanUser(tx.QueryRowContext(ctx, `
			SELECT id, display_name, usage_count, history, last_quiz_date, quizzes_today, current_session, created_at, updated_at
			FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		if err := fn(rec); err != nil {
			return err
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		history, err := json.Marshal(rec.History)
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		var session []byte
		if rec.CurrentSession != nil {
			session, err = json.Marshal(rec.CurrentSession)
			if err != nil {
				return fmt.Errorf("failed to marshal session: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET display_name = $2, usage_count = $3, history = $4,
			    last_quiz_date = $5, quizzes_today = $6, current_session = $7,
			    updated_at = $8
			WHERE id = $1`,
			rec.ID, rec.DisplayName, rec.UsageCount, history,
			rec.LastQuizDate, rec.QuizzesToday, nullableJSON(session), time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to update user %s: %w", id, err)
		}
		return nil
	})
}

// RecordUsage implements store.UserStore.RecordUsage. A single UPDATE
// keeps the counter increment and history append atomic; an unknown user
// matches zero rows and the call is a silent no-op.
func (s *UserStore) RecordUsage(ctx context.Context, id, item string) error {
	entry, err := json.Marshal([]domain.HistoryEntry{{Item: item, At: time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	query := `
		UPDATE users
		SET usage_count = usage_count + 1, history = history || $2::jsonb, updated_at = now()
		WHERE id = $1`
	args := []any{id, entry}
	if item == "" {
		query = `UPDATE users SET usage_count = usage_count + 1, updated_at = now() WHERE id = $1`
		args = []any{id}
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record usage for user %s: %w", id, err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.UserRecord, error) {
	var (
		rec     domain.UserRecord
		history []byte
		session []byte
	)
	err := row.Scan(
		&rec.ID, &rec.DisplayName, &rec.UsageCount, &history,
		&rec.LastQuizDate, &rec.QuizzesToday, &session,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if err := json.Unmarshal(history, &rec.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	if len(session) > 0 {
		rec.CurrentSession = &domain.Session{}
		if err := json.Unmarshal(session, rec.CurrentSession); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
	}
	return &rec, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
