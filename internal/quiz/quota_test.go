package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abutolibrashidov/vocabbot/internal/platform/memory"
	"github.com/abutolibrashidov/vocabbot/internal/store"
)

func newGate(t *testing.T, limit int) (*Gate, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	gate, err := NewGate(users, limit, nil)
	require.NoError(t, err)
	return gate, users
}

func TestGateAllowsUpToDailyLimit(t *testing.T) {
	gate, users := newGate(t, 2)
	ctx := context.Background()
	require.NoError(t, users.Ensure(ctx, "u1", ""))

	assert.NoError(t, gate.Allow(ctx, "u1"))
	assert.NoError(t, gate.Allow(ctx, "u1"))
	assert.ErrorIs(t, gate.Allow(ctx, "u1"), ErrQuotaExceeded)
}

func TestGateQuotaIsPerUser(t *testing.T) {
	gate, users := newGate(t, 1)
	ctx := context.Background()
	require.NoError(t, users.Ensure(ctx, "u1", ""))
	require.NoError(t, users.Ensure(ctx, "u2", ""))

	require.NoError(t, gate.Allow(ctx, "u1"))
	assert.ErrorIs(t, gate.Allow(ctx, "u1"), ErrQuotaExceeded)
	assert.NoError(t, gate.Allow(ctx, "u2"))
}

func TestGateResetsOnCalendarRollover(t *testing.T) {
	gate, users := newGate(t, 1)
	ctx := context.Background()
	require.NoError(t, users.Ensure(ctx, "u1", ""))

	day := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	gate.now = func() time.Time { return day }

	require.NoError(t, gate.Allow(ctx, "u1"))
	require.ErrorIs(t, gate.Allow(ctx, "u1"), ErrQuotaExceeded)

	// Ten minutes later it is the next UTC day and the counter resets.
	gate.now = func() time.Time { return day.Add(10 * time.Minute) }
	assert.NoError(t, gate.Allow(ctx, "u1"))
	assert.ErrorIs(t, gate.Allow(ctx, "u1"), ErrQuotaExceeded)
}

func TestGateUnknownUser(t *testing.T) {
	gate, _ := newGate(t, 1)

	err := gate.Allow(context.Background(), "ghost")

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestGateRejectsBadConfiguration(t *testing.T) {
	users := memory.NewUserStore()

	_, err := NewGate(nil, 1, nil)
	assert.Error(t, err)
	_, err = NewGate(users, 0, nil)
	assert.Error(t, err)
}
