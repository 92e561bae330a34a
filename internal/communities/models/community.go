package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

type Community struct {
	ID          id.CommunityID `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	CreatedBy   id.UserID      `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CommunityUpdate is a partial mutation; nil fields stay untouched.
type CommunityUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Membership joins a user to a community. Exactly one record per
// (community, user) pair; the store's uniqueness constraint, not the
// service, is the arbiter under concurrency.
type Membership struct {
	CommunityID id.CommunityID `json:"communityId"`
	UserID      id.UserID      `json:"userId"`
	Role        string         `json:"role"`
	JoinedAt    time.Time      `json:"joinedAt"`
}

const (
	RoleMember = "member"
	RoleOwner  = "owner"
)
