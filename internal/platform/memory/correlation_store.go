package memory

import (
	"context"
	"sync"

	"github.com/abutolibrashidov/vocabbot/internal/store"
)

// CorrelationStore implements store.CorrelationStore with a mutex-guarded
// map. Lookup and consume happen under the same critical section, so no
// two callers can resolve the same identifier.
type CorrelationStore struct {
	mu      sync.Mutex
	entries map[string]store.Correlation
}

// NewCorrelationStore creates an empty in-memory correlation store.
func NewCorrelationStore() *CorrelationStore {
	return &CorrelationStore{entries: make(map[string]store.Correlation)}
}

// Ensure CorrelationStore implements store.CorrelationStore interface.
var _ store.CorrelationStore = (*CorrelationStore)(nil)

// Register implements store.CorrelationStore.Register.
func (s *CorrelationStore) Register(ctx context.Context, externalID, userID string, questionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[externalID] = store.Correlation{
		ExternalID:    externalID,
		UserID:        userID,
		QuestionIndex: questionIndex,
	}
	return nil
}

// Resolve implements store.CorrelationStore.Resolve.
func (s *CorrelationStore) Resolve(ctx context.Context, externalID, reportingUserID string) (store.Correlation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[externalID]
	if !ok || entry.UserID != reportingUserID {
		return store.Correlation{}, store.ErrCorrelationNotFound
	}
	delete(s.entries, externalID)
	return entry, nil
}
