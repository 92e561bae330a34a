//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/users/models"
	"hacklabconnect/internal/users/store"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
	"hacklabconnect/pkg/testutil/containers"
)

func newUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:          id.UserID(uuid.New()),
		Email:       email,
		DisplayName: "ada",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPostgresStore(t *testing.T) {
	db := containers.StartPostgres(t, "../../../db/migrations")
	st := store.NewPostgres(db)
	ctx := context.Background()

	t.Run("save and find", func(t *testing.T) {
		u := newUser("ada@hacklab.dev")
		require.NoError(t, st.Save(ctx, u))

		byID, err := st.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)

		// Email lookup is case-insensitive.
		byEmail, err := st.FindByEmail(ctx, "ADA@hacklab.dev")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		u := newUser("dup@hacklab.dev")
		require.NoError(t, st.Save(ctx, u))

		dup := newUser("dup@hacklab.dev")
		assert.ErrorIs(t, st.Save(ctx, dup), sentinel.ErrConflict)
	})

	t.Run("partial profile update", func(t *testing.T) {
		u := newUser("profile@hacklab.dev")
		require.NoError(t, st.Save(ctx, u))

		bio := "builds robots"
		updated, err := st.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "builds robots", updated.Bio)
		assert.Equal(t, u.DisplayName, updated.DisplayName)
	})

	t.Run("settings upsert", func(t *testing.T) {
		u := newUser("settings@hacklab.dev")
		require.NoError(t, st.Save(ctx, u))

		_, err := st.GetSettings(ctx, u.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		settings := &models.Settings{UserID: u.ID, EmailNotifications: true, Theme: "dark", UpdatedAt: time.Now().UTC()}
		require.NoError(t, st.SaveSettings(ctx, settings))
		settings.Theme = "light"
		require.NoError(t, st.SaveSettings(ctx, settings))

		got, err := st.GetSettings(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "light", got.Theme)
	})

	t.Run("delete", func(t *testing.T) {
		u := newUser("gone@hacklab.dev")
		require.NoError(t, st.Save(ctx, u))

		require.NoError(t, st.Delete(ctx, u.ID))
		_, err := st.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.ErrorIs(t, st.Delete(ctx, u.ID), sentinel.ErrNotFound)
	})
}
