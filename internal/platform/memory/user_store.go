package memory

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/abutolibrashidov/vocabbot/internal/domain"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

const shardCount = 16

type userShard struct {
	mu      sync.Mutex
	records map[string]*domain.UserRecord
}

// UserStore implements store.UserStore with sharded in-memory maps.
type UserStore struct {
	shards [shardCount]*userShard
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	s := &UserStore{}
	for i := range s.shards {
		s.shards[i] = &userShard{records: make(map[string]*domain.UserRecord)}
	}
	return s
}

// Ensure UserStore implements store.UserStore interface.
var _ store.UserStore = (*UserStore)(nil)

func (s *UserStore) shard(id string) *userShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Ensure implements store.UserStore.Ensure.
func (s *UserStore) Ensure(ctx context.Context, id, displayName string) error {
	rec, err := domain.NewUserRecord(id, displayName)
	if err != nil {
		return err
	}

	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.records[id]; exists {
		return nil
	}
	sh.records[id] = rec
	return nil
}

// Get implements store.UserStore.Get.
func (s *UserStore) Get(ctx context.Context, id string) (*domain.UserRecord, error) {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return rec.Clone(), nil
}

// ListIDs implements store.UserStore.ListIDs.
func (s *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id := range sh.records {
			ids = append(ids, id)
		}
		sh.mu.Unlock()
	}
	sort.Strings(ids)
	return ids, nil
}

// Mutate implements store.UserStore.Mutate. fn runs on a clone under the
// shard lock; the clone replaces the stored record only when fn succeeds
// and the result still satisfies the record invariants, so a failed
// mutation leaves no partial state behind.
func (s *UserStore) Mutate(ctx context.Context, id string, fn func(*domain.UserRecord) error) error {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		return store.ErrUserNotFound
	}

	working := rec.Clone()
	if err := fn(working); err != nil {
		return err
	}
	if err := working.Validate(); err != nil {
		return err
	}
	working.UpdatedAt = time.Now().UTC()
	sh.records[id] = working
	return nil
}

// RecordUsage implements store.UserStore.RecordUsage.
func (s *UserStore) RecordUsage(ctx context.Context, id, item string) error {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if !ok {
		// Usage tracking is best effort; unknown users are ignored.
		return nil
	}
	rec.RecordUsage(item, time.Now().UTC())
	rec.UpdatedAt = time.Now().UTC()
	return nil
}
