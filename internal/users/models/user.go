package models

import (
	"time"

	id "hacklabconnect/pkg/domain"
)

// User is a platform member. The admin flag lives here, on the record, so
// authorization reads always see the current value.
type User struct {
	ID          id.UserID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PublicProfile is the projection safe for anonymous readers: no email, no
// admin flag.
type PublicProfile struct {
	ID          id.UserID `json:"id"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileUpdate is a partial profile mutation; nil fields stay untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
}

// Settings are per-user preferences, owner-scoped.
type Settings struct {
	UserID             id.UserID `json:"userId"`
	EmailNotifications bool      `json:"emailNotifications"`
	Theme              string    `json:"theme"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
