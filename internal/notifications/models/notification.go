package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

// Notification is a per-user inbox entry. Kind is a dotted event name
// such as "post.liked" or "community.joined".
type Notification struct {
	ID        id.NotificationID `json:"id"`
	UserID    id.UserID         `json:"userId"`
	Kind      string            `json:"kind"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}
