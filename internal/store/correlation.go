package store

import "context"

// Correlation associates an external answer-event identifier with the
// pending question it answers.
type Correlation struct {
	ExternalID    string
	UserID        string
	QuestionIndex int
}

// CorrelationStore maps external answer-event identifiers (Telegram poll
// IDs) to the user and question index they belong to. Entries are
// single-use: a successful Resolve consumes the entry atomically so that
// each external identifier is applied at most once, even under concurrent
// delivery retries.
type CorrelationStore interface {
	// Register stores a single-use mapping for externalID, replacing any
	// previous registration of the same identifier.
	Register(ctx context.Context, externalID, userID string, questionIndex int) error

	// Resolve returns the correlation and removes the entry, atomically
	// with the lookup. It returns ErrCorrelationNotFound when the
	// identifier was never registered, was already consumed, or belongs to
	// a different user than reportingUserID; a foreign attempt does not
	// consume the entry, so the real owner can still resolve it.
	Resolve(ctx context.Context, externalID, reportingUserID string) (Correlation, error)
}
