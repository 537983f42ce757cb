package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(NewMemorySessions(), "test-secret", "classpulse", ttl)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(time.Hour)

	token, err := mgr.Issue(ctx, 42, "student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)

	// Resolving twice is fine; sessions live until revoked or expired.
	userID, err = mgr.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestSessionRevoke(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(time.Hour)

	token, err := mgr.Issue(ctx, 7, "teacher")
	require.NoError(t, err)

	require.NoError(t, mgr.Revoke(ctx, token))

	_, err = mgr.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	// Revoking again, or revoking garbage, stays silent.
	require.NoError(t, mgr.Revoke(ctx, token))
	require.NoError(t, mgr.Revoke(ctx, "not-a-token"))
}

func TestSessionRejectsTampering(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(time.Hour)

	token, err := mgr.Issue(ctx, 1, "student")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = mgr.Resolve(ctx, tampered)
	require.ErrorIs(t, err, ErrNoSession)

	_, err = mgr.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessions()
	mgr := NewManager(store, "secret-a", "classpulse", time.Hour)
	other := NewManager(store, "secret-b", "classpulse", time.Hour)

	token, err := other.Issue(ctx, 1, "student")
	require.NoError(t, err)

	_, err = mgr.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRejectsForeignIssuer(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessions()
	mgr := NewManager(store, "secret", "classpulse", time.Hour)
	other := NewManager(store, "secret", "someone-else", time.Hour)

	token, err := other.Issue(ctx, 1, "student")
	require.NoError(t, err)

	_, err = mgr.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemorySessions(), "secret", "classpulse", 10*time.Millisecond)

	token, err := mgr.Issue(ctx, 5, "student")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = mgr.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestMemorySessionsExpiry(t *testing.T) {
	store := NewMemorySessions()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid", 9, -time.Second))
	_, err := store.Get(ctx, "sid")
	require.ErrorIs(t, err, ErrNoSession)
}
