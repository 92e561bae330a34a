// Package service scores participation. Points accrue in an append-only
// ledger; level and leaderboard rank are derived from ledger totals, never
// stored. Badge grants are two writes (grant plus count index) and report
// a partial update when the index write fails after the grant landed.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/gamification/models"
	"hacklabconnect/internal/gamification/store"
	"hacklabconnect/internal/platform/metrics"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Cache holds computed leaderboards for a short window. A nil-safe
// no-op implementation backs deployments without a cache.
type Cache interface {
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, bool)
	SetLeaderboard(ctx context.Context, limit int, entries []*models.LeaderboardEntry)
}

type Service struct {
	store   store.Store
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st store.Store, cache Cache, logger *slog.Logger, m *metrics.Metrics) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{store: st, cache: cache, logger: logger, metrics: m, now: time.Now}
}

// Award appends a ledger entry. It backs the PointsAwarder dependency of
// the content services.
func (s *Service) Award(ctx context.Context, userID id.UserID, points int, reason string) error {
	entry := &models.PointsEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.store.AddEntry(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append points entry")
	}
	s.metrics.PointsAwarded.Add(float64(points))
	return nil
}

// Standing reads the derived state for one user. A user with no ledger
// entries has zero points and level 1.
func (s *Service) Standing(ctx context.Context, userID id.UserID) (*models.Standing, error) {
	points, err := s.store.TotalPoints(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sum points")
	}
	badges, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list badges")
	}
	count, err := s.store.BadgeCount(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read badge count")
	}
	return &models.Standing{
		UserID:     userID,
		Points:     points,
		Level:      models.LevelFor(points),
		BadgeCount: count,
		Badges:     badges,
	}, nil
}

// GrantBadge records a badge and bumps the per-user count index. The
// grant is the primary write: when the index update fails the badge
// stands and the caller sees a partial update.
func (s *Service) GrantBadge(ctx context.Context, userID id.UserID, name string) (*models.Badge, error) {
	badge := &models.Badge{
		ID:        id.BadgeID(uuid.New()),
		UserID:    userID,
		Name:      name,
		AwardedAt: s.now(),
	}
	err := s.store.AddBadge(ctx, badge)
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, "badge already granted")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "insert badge")
	}

	if err := s.store.IncrementBadgeCount(ctx, userID); err != nil {
		return badge, dErrors.Wrap(err, dErrors.CodePartialUpdate, "badge granted but count index not updated")
	}
	return badge, nil
}

// Leaderboard ranks users by ledger total, highest first. Results are
// cached per limit; a stale read inside the cache window is acceptable.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	if entries, ok := s.cache.GetLeaderboard(ctx, limit); ok {
		return entries, nil
	}

	scores, err := s.store.TopScores(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list top scores")
	}

	entries := make([]*models.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: score.UserID,
			Points: score.Points,
			Level:  models.LevelFor(score.Points),
		})
	}
	s.cache.SetLeaderboard(ctx, limit, entries)
	return entries, nil
}

type noopCache struct{}

func (noopCache) GetLeaderboard(context.Context, int) ([]*models.LeaderboardEntry, bool) {
	return nil, false
}
func (noopCache) SetLeaderboard(context.Context, int, []*models.LeaderboardEntry) {}
