// Package store defines user persistence. Implementations return
// sentinel errors; the service layer translates them.
package store

import (
	"context"

	"hacklabconnect/internal/users/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile applies a partial update and returns the fresh record.
	// sentinel.ErrNotFound when the user does not exist.
	UpdateProfile(ctx context.Context, userID id.UserID, update models.ProfileUpdate) (*models.User, error)
	SetAdmin(ctx context.Context, userID id.UserID, admin bool) error
	Delete(ctx context.Context, userID id.UserID) error
	// List returns all users ordered by creation time descending.
	List(ctx context.Context) ([]*models.User, error)

	GetSettings(ctx context.Context, userID id.UserID) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}
