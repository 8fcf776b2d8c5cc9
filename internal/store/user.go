package store

import (
	"context"

	"github.com/abutolibrashidov/vocabbot/internal/domain"
)

// UserStore defines the interface for user record persistence.
//
// Implementations must serialize concurrent mutations to the same user
// while allowing mutations to different users to proceed independently.
type UserStore interface {
	// Ensure creates a record for the identity if none exists and leaves an
	// existing record untouched. Display-name updates are deliberately not
	// merged into existing records so that stale request metadata cannot
	// clobber richer data.
	Ensure(ctx context.Context, id, displayName string) error

	// Get retrieves a user record by its opaque identity.
	// Returns ErrUserNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*domain.UserRecord, error)

	// ListIDs returns the identities of every known user. Used by the
	// scheduled broadcast to iterate the quota gate per user.
	ListIDs(ctx context.Context) ([]string, error)

	// Mutate runs fn against the current record under a per-user exclusive
	// lock and persists the mutated record if fn returns nil. An error from
	// fn aborts the mutation and is returned unchanged.
	// Returns ErrUserNotFound if the record does not exist.
	Mutate(ctx context.Context, id string, fn func(*domain.UserRecord) error) error

	// RecordUsage increments the lifetime usage counter and appends item to
	// the interaction history. Unknown users are a silent no-op: usage
	// tracking must never block the user-facing action that triggered it.
	RecordUsage(ctx context.Context, id, item string) error
}
