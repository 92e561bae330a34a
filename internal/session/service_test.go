package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hacklabconnect/pkg/domain"
)

const (
	testKey           = "test-signing-key"
	testTTL           = time.Hour
	testRefreshWindow = 10 * time.Minute
)

func newTestService() (*Service, *InMemoryStore) {
	store := NewInMemoryStore()
	return NewService(store, testKey, testTTL, testRefreshWindow), store
}

func TestIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	sess, token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, rotated, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ident.Anonymous)
	assert.Equal(t, userID, ident.UserID)
	assert.Equal(t, sess.ID, ident.SessionID)
	assert.Empty(t, rotated, "a fresh session should not rotate")
}

func TestResolveAnonymousOutcomes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	t.Run("empty token", func(t *testing.T) {
		ident, rotated, err := svc.Resolve(ctx, "")
		require.NoError(t, err)
		assert.True(t, ident.Anonymous)
		assert.Empty(t, rotated)
	})

	t.Run("garbage token", func(t *testing.T) {
		ident, _, err := svc.Resolve(ctx, "not.a.jwt")
		require.NoError(t, err)
		assert.True(t, ident.Anonymous)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewService(NewInMemoryStore(), "different-key", testTTL, testRefreshWindow)
		_, token, err := other.Issue(ctx, id.UserID(uuid.New()))
		require.NoError(t, err)

		ident, _, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, ident.Anonymous)
	})

	t.Run("revoked session", func(t *testing.T) {
		sess, token, err := svc.Issue(ctx, id.UserID(uuid.New()))
		require.NoError(t, err)
		require.NoError(t, svc.Revoke(ctx, sess.ID))

		ident, _, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, ident.Anonymous)
	})
}

func TestResolveRotatesNearExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	sess, token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Move the clock inside the refresh window, just before expiry.
	svc.now = func() time.Time { return sess.ExpiresAt.Add(-testRefreshWindow / 2) }

	ident, rotated, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ident.Anonymous)
	assert.Equal(t, userID, ident.UserID)
	require.NotEmpty(t, rotated, "resolution inside the window must rotate")
	assert.NotEqual(t, sess.ID, ident.SessionID)

	// The superseded session no longer resolves.
	oldIdent, _, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, oldIdent.Anonymous)
}

func TestResolveRotatesShortlyAfterExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	sess, token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	svc.now = func() time.Time { return sess.ExpiresAt.Add(testRefreshWindow / 2) }

	ident, rotated, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ident.Anonymous)
	assert.Equal(t, userID, ident.UserID)
	assert.NotEmpty(t, rotated)
}

func TestResolveRejectsBeyondRefreshWindow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	sess, token, err := svc.Issue(ctx, id.UserID(uuid.New()))
	require.NoError(t, err)

	svc.now = func() time.Time { return sess.ExpiresAt.Add(testRefreshWindow + time.Minute) }

	ident, rotated, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, ident.Anonymous)
	assert.Empty(t, rotated)
}

func TestRevokeUserClearsEverySession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	_, first, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, second, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeUser(ctx, userID))

	for _, token := range []string{first, second} {
		ident, _, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, ident.Anonymous)
	}
}
