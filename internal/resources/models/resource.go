package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

// Resource is a shared link or uploaded file attached to a community.
// Exactly one of URL and FileRef is set; the other stays empty. Repeated
// submissions of the same link are distinct records, each with its own ID.
type Resource struct {
	ID          id.ResourceID  `json:"id"`
	CommunityID id.CommunityID `json:"communityId"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	URL         string         `json:"url,omitempty"`
	FileRef     string         `json:"fileRef,omitempty"`
	CreatedBy   id.UserID      `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}
