package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abutolibrashidov/vocabbot/internal/platform/memory"
	"github.com/abutolibrashidov/vocabbot/internal/quiz"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	started []string
	fail    map[string]error
}

func (d *recordingDispatcher) Start(_ context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.fail[userID]; ok {
		return err
	}
	d.started = append(d.started, userID)
	return nil
}

type stubGate struct {
	mu     sync.Mutex
	denied map[string]bool
}

func (g *stubGate) Allow(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.denied[userID] {
		return quiz.ErrQuotaExceeded
	}
	return nil
}

func seedUsers(t *testing.T, users *memory.UserStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, users.Ensure(context.Background(), id, ""))
	}
}

func TestBroadcastReachesEveryAdmittedUser(t *testing.T) {
	users := memory.NewUserStore()
	seedUsers(t, users, "u1", "u2", "u3")
	dispatcher := &recordingDispatcher{}
	b, err := NewBroadcaster(users, &stubGate{}, dispatcher, 2, nil)
	require.NoError(t, err)

	sent, err := b.Broadcast(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, dispatcher.started)
}

func TestBroadcastSkipsUsersAtQuota(t *testing.T) {
	users := memory.NewUserStore()
	seedUsers(t, users, "u1", "u2")
	dispatcher := &recordingDispatcher{}
	gate := &stubGate{denied: map[string]bool{"u1": true}}
	b, err := NewBroadcaster(users, gate, dispatcher, 1, nil)
	require.NoError(t, err)

	sent, err := b.Broadcast(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"u2"}, dispatcher.started)
}

func TestBroadcastSurvivesPerUserFailures(t *testing.T) {
	users := memory.NewUserStore()
	seedUsers(t, users, "u1", "u2", "u3")
	dispatcher := &recordingDispatcher{fail: map[string]error{"u2": errors.New("chat blocked")}}
	b, err := NewBroadcaster(users, &stubGate{}, dispatcher, 2, nil)
	require.NoError(t, err)

	sent, err := b.Broadcast(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{"u1", "u3"}, dispatcher.started)
}

func TestBroadcastWithNoUsers(t *testing.T) {
	b, err := NewBroadcaster(memory.NewUserStore(), &stubGate{}, &recordingDispatcher{}, 2, nil)
	require.NoError(t, err)

	sent, err := b.Broadcast(context.Background())

	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestBroadcastStopsOnCancelledContext(t *testing.T) {
	users := memory.NewUserStore()
	seedUsers(t, users, "u1", "u2", "u3")
	b, err := NewBroadcaster(users, &stubGate{}, &recordingDispatcher{}, 1, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Broadcast(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendToBypassesGate(t *testing.T) {
	users := memory.NewUserStore()
	seedUsers(t, users, "u1")
	dispatcher := &recordingDispatcher{}
	gate := &stubGate{denied: map[string]bool{"u1": true}}
	b, err := NewBroadcaster(users, gate, dispatcher, 1, nil)
	require.NoError(t, err)

	require.NoError(t, b.SendTo(context.Background(), "u1"))

	assert.Equal(t, []string{"u1"}, dispatcher.started)
}

func TestNewBroadcasterNormalizesWorkerCount(t *testing.T) {
	b, err := NewBroadcaster(memory.NewUserStore(), &stubGate{}, &recordingDispatcher{}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.workers)
}
