package store

import (
	"context"

	"hacklabconnect/internal/communities/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, c *models.Community) error
	FindByID(ctx context.Context, communityID id.CommunityID) (*models.Community, error)
	Update(ctx context.Context, communityID id.CommunityID, update models.CommunityUpdate) (*models.Community, error)
	Delete(ctx context.Context, communityID id.CommunityID) error
	// List returns all communities ordered by creation time descending.
	List(ctx context.Context) ([]*models.Community, error)

	// AddMember inserts a membership; sentinel.ErrConflict when the pair
	// already exists.
	AddMember(ctx context.Context, m *models.Membership) error
	FindMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) (*models.Membership, error)
	RemoveMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) error
	// ListMembers returns memberships ordered by join time ascending.
	ListMembers(ctx context.Context, communityID id.CommunityID) ([]*models.Membership, error)
}
