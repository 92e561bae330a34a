// Package store persists notification inboxes. Listings put unread
// entries first, newest first within each group.
package store

import (
	"context"

	"hacklabconnect/internal/notifications/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID id.UserID) (int, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
}
