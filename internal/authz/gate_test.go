package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/session"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type adminSet map[id.UserID]bool

func (s adminSet) IsAdmin(_ context.Context, userID id.UserID) (bool, error) {
	return s[userID], nil
}

func identityFor(userID id.UserID) session.Identity {
	return session.Identity{UserID: userID, SessionID: id.SessionID(uuid.New())}
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	owner := id.UserID(uuid.New())
	admin := id.UserID(uuid.New())
	other := id.UserID(uuid.New())
	gate := NewGate(adminSet{admin: true})

	t.Run("public allows anonymous", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(ctx, session.Anonymous, Public, id.UserID{}))
	})

	t.Run("anonymous rejected on any gated capability", func(t *testing.T) {
		for _, cap := range []Capability{AuthenticatedAny, OwnerOrAdmin, AdminOnly} {
			err := gate.Authorize(ctx, session.Anonymous, cap, owner)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		}
	})

	t.Run("authenticated any", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(ctx, identityFor(other), AuthenticatedAny, id.UserID{}))
	})

	t.Run("owner passes owner-or-admin", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(ctx, identityFor(owner), OwnerOrAdmin, owner))
	})

	t.Run("admin passes owner-or-admin on someone else's resource", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(ctx, identityFor(admin), OwnerOrAdmin, owner))
	})

	t.Run("non-owner non-admin forbidden", func(t *testing.T) {
		err := gate.Authorize(ctx, identityFor(other), OwnerOrAdmin, owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("admin only", func(t *testing.T) {
		assert.NoError(t, gate.Authorize(ctx, identityFor(admin), AdminOnly, id.UserID{}))
		err := gate.Authorize(ctx, identityFor(other), AdminOnly, id.UserID{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestAuthorizeReadsAdminFlagFresh(t *testing.T) {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	admins := adminSet{userID: true}
	gate := NewGate(admins)

	require.NoError(t, gate.Authorize(ctx, identityFor(userID), AdminOnly, id.UserID{}))

	// Revoking the flag takes effect on the very next check; nothing about
	// the previous grant is cached.
	admins[userID] = false
	err := gate.Authorize(ctx, identityFor(userID), AdminOnly, id.UserID{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}
