package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/communities/models"
	"hacklabconnect/internal/communities/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type recordingNotifier struct {
	pushes []string
}

func (n *recordingNotifier) Push(_ context.Context, _ id.UserID, kind, _ string) error {
	n.pushes = append(n.pushes, kind)
	return nil
}

func newTestService() (*Service, *store.InMemoryStore, *recordingNotifier) {
	st := store.NewInMemory()
	notifier := &recordingNotifier{}
	return New(st, notifier, slog.New(slog.DiscardHandler)), st, notifier
}

func TestCreateAutoJoinsCreatorAsOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	creator := id.UserID(uuid.New())

	community, err := svc.Create(ctx, creator, "go-nuts", "gopher hangout")
	require.NoError(t, err)
	assert.Equal(t, creator, community.CreatedBy)

	members, err := svc.Members(ctx, community.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creator, members[0].UserID)
	assert.Equal(t, models.RoleOwner, members[0].Role)
}

func TestJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService()
	creator := id.UserID(uuid.New())
	joiner := id.UserID(uuid.New())

	community, err := svc.Create(ctx, creator, "hardware", "")
	require.NoError(t, err)

	first, created, err := svc.Join(ctx, community.ID, joiner)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleMember, first.Role)

	second, created, err := svc.Join(ctx, community.ID, joiner)
	require.NoError(t, err)
	assert.False(t, created, "second join returns the existing membership")
	assert.Equal(t, first.JoinedAt, second.JoinedAt)

	members, err := svc.Members(ctx, community.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2, "creator plus one joiner, no duplicate rows")

	assert.Contains(t, notifier.pushes, "community.joined")
}

func TestJoinMissingCommunity(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.Join(context.Background(), id.CommunityID(uuid.New()), id.UserID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	creator := id.UserID(uuid.New())
	joiner := id.UserID(uuid.New())

	community, err := svc.Create(ctx, creator, "security", "")
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, community.ID, joiner)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, community.ID, joiner))

	err = svc.Leave(ctx, community.ID, joiner)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "leaving twice is a 404, not a silent success")
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	creator := id.UserID(uuid.New())

	community, err := svc.Create(ctx, creator, "retro", "old iron")
	require.NoError(t, err)

	name := "retrocomputing"
	updated, err := svc.Update(ctx, community.ID, models.CommunityUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "retrocomputing", updated.Name)
	assert.Equal(t, "old iron", updated.Description)

	require.NoError(t, svc.Delete(ctx, community.ID))
	_, err = svc.Get(ctx, community.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
