// Package store persists the points ledger and badge grants. The badge
// count lives in a separate per-user index row so standing reads never
// scan the grants table.
package store

import (
	"context"

	"hacklabconnect/internal/gamification/models"
	id "hacklabconnect/pkg/domain"
)

// Score is an aggregated ledger total for one user.
type Score struct {
	UserID id.UserID
	Points int
}

type Store interface {
	AddEntry(ctx context.Context, entry *models.PointsEntry) error
	TotalPoints(ctx context.Context, userID id.UserID) (int, error)
	// TopScores returns totals highest first, up to limit. Users with no
	// ledger entries do not appear.
	TopScores(ctx context.Context, limit int) ([]Score, error)

	// AddBadge returns ErrConflict when the user already holds the name.
	AddBadge(ctx context.Context, badge *models.Badge) error
	ListBadges(ctx context.Context, userID id.UserID) ([]*models.Badge, error)
	IncrementBadgeCount(ctx context.Context, userID id.UserID) error
	BadgeCount(ctx context.Context, userID id.UserID) (int, error)
}
