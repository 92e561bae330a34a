// Package store persists shared resources. Listings are newest first and
// may be scoped to a single community.
package store

import (
	"context"

	"hacklabconnect/internal/resources/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, r *models.Resource) error
	FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error)
	Delete(ctx context.Context, resourceID id.ResourceID) error

	// List returns resources newest first. A nil communityID returns every
	// resource; a non-nil one restricts the listing to that community.
	List(ctx context.Context, communityID *id.CommunityID) ([]*models.Resource, error)
}
