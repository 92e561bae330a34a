package models

import (
	"time"

	"github.com/google/uuid"

	id "hacklabconnect/pkg/domain"
)

// PointsEntry is one append-only ledger row. A user's score is the sum of
// their entries; entries are never updated or deleted.
type PointsEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    id.UserID `json:"userId"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// Badge is a named achievement held by a user. A user holds each badge
// name at most once.
type Badge struct {
	ID        id.BadgeID `json:"id"`
	UserID    id.UserID  `json:"userId"`
	Name      string     `json:"name"`
	AwardedAt time.Time  `json:"awardedAt"`
}

// Standing is a user's derived gamification state.
type Standing struct {
	UserID     id.UserID `json:"userId"`
	Points     int       `json:"points"`
	Level      int       `json:"level"`
	BadgeCount int       `json:"badgeCount"`
	Badges     []*Badge  `json:"badges"`
}

// LeaderboardEntry is one ranked row. Rank starts at 1.
type LeaderboardEntry struct {
	Rank   int       `json:"rank"`
	UserID id.UserID `json:"userId"`
	Points int       `json:"points"`
	Level  int       `json:"level"`
}

// LevelFor derives a level from a points total. Every hundred points is
// one level, starting at level 1.
func LevelFor(points int) int {
	return points/100 + 1
}
