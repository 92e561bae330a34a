package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

type Post struct {
	ID          id.PostID      `json:"id"`
	CommunityID id.CommunityID `json:"communityId"`
	AuthorID    id.UserID      `json:"authorId"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Comment struct {
	ID        id.CommentID `json:"id"`
	PostID    id.PostID    `json:"postId"`
	AuthorID  id.UserID    `json:"authorId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	// Author carries the expanded display fields when the listing joins
	// them in; nil on bare records.
	Author *Author `json:"author,omitempty"`
}

// Author is the slice of a user profile embedded in comment listings.
type Author struct {
	ID          id.UserID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
}

// Like records that a user liked a post. One record per (post, user) pair,
// enforced by the store's uniqueness constraint.
type Like struct {
	PostID    id.PostID `json:"postId"`
	UserID    id.UserID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
