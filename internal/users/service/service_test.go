package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/users/models"
	"hacklabconnect/internal/users/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

func newTestService() (*Service, *store.InMemoryStore) {
	st := store.NewInMemory()
	m := metrics.NewWith(prometheus.NewRegistry())
	return New(st, slog.New(slog.DiscardHandler), m), st
}

func TestFindOrCreateByEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.FindOrCreateByEmail(ctx, "ada@hacklab.dev")
	require.NoError(t, err)
	assert.Equal(t, "ada@hacklab.dev", first.Email)
	assert.Equal(t, "ada", first.DisplayName)
	assert.False(t, first.IsAdmin)

	second, err := svc.FindOrCreateByEmail(ctx, "ada@hacklab.dev")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same email resolves to the same account")
}

func TestGetMissingUser(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), id.UserID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestUpdateProfilePartialFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.FindOrCreateByEmail(ctx, "grace@hacklab.dev")
	require.NoError(t, err)

	bio := "systems programmer"
	updated, err := svc.UpdateProfile(ctx, user.ID, models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "systems programmer", updated.Bio)
	assert.Equal(t, user.DisplayName, updated.DisplayName, "unset fields keep their value")
}

func TestSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.FindOrCreateByEmail(ctx, "linus@hacklab.dev")
	require.NoError(t, err)

	settings, err := svc.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, settings.EmailNotifications)
	assert.Equal(t, "system", settings.Theme)

	settings.Theme = "dark"
	saved, err := svc.SaveSettings(ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, "dark", saved.Theme)

	reread, err := svc.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", reread.Theme)
}

func TestIsAdminReflectsCurrentFlag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.FindOrCreateByEmail(ctx, "root@hacklab.dev")
	require.NoError(t, err)

	admin, err := svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, admin)

	require.NoError(t, svc.SetAdmin(ctx, user.ID, true))
	admin, err = svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, admin)

	require.NoError(t, svc.SetAdmin(ctx, user.ID, false))
	admin, err = svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestIsAdminMissingUserIsNotAdmin(t *testing.T) {
	svc, _ := newTestService()
	admin, err := svc.IsAdmin(context.Background(), id.UserID(uuid.New()))
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.FindOrCreateByEmail(ctx, "gone@hacklab.dev")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))
	_, err = svc.Get(ctx, user.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.Delete(ctx, user.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
