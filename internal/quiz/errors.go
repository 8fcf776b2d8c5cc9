package quiz

import "errors"

var (
	// ErrQuizUnavailable indicates there is not enough content to
	// assemble a single question.
	ErrQuizUnavailable = errors.New("quiz: not enough content to build questions")

	// ErrUnknownCorrelation indicates an answer event that does not
	// map to any pending question, either because it was already
	// consumed or because it was never registered.
	ErrUnknownCorrelation = errors.New("quiz: answer does not match a pending question")

	// ErrStaleAnswer indicates an answer for a question the session
	// has already moved past.
	ErrStaleAnswer = errors.New("quiz: answer targets a stale question")

	// ErrQuotaExceeded indicates the user has reached the daily limit
	// for automatically initiated quizzes.
	ErrQuotaExceeded = errors.New("quiz: daily quiz limit reached")

	// ErrNoSession indicates an operation that requires an active
	// session for a user who has none.
	ErrNoSession = errors.New("quiz: no active session")
)
