// Package adapters bridges the user directory into the shape post listings
// embed. Author expansion stays read-only: a lookup failure here never
// blocks the comment listing that asked for it.
package adapters

import (
	"context"

	"hacklabconnect/internal/posts/models"
	"hacklabconnect/internal/users/service"
	id "hacklabconnect/pkg/domain"
)

// UserProfiles resolves comment authors from the users service.
type UserProfiles struct {
	users *service.Service
}

func NewUserProfiles(users *service.Service) *UserProfiles {
	return &UserProfiles{users: users}
}

func (p *UserProfiles) Author(ctx context.Context, userID id.UserID) (*models.Author, error) {
	user, err := p.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Author{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}, nil
}
