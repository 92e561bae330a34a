package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/gamification/models"
	"hacklabconnect/internal/gamification/store"
	"hacklabconnect/internal/platform/metrics"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

func newTestService() (*Service, *store.InMemoryStore) {
	st := store.NewInMemory()
	svc := New(st, nil, slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))
	return svc, st
}

func TestLevelFor(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 2, 250: 3, 300: 4}
	for points, want := range cases {
		assert.Equal(t, want, models.LevelFor(points), "points %d", points)
	}
}

func TestAwardAccumulates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	require.NoError(t, svc.Award(ctx, userID, 10, "post created"))
	require.NoError(t, svc.Award(ctx, userID, 5, "comment created"))

	standing, err := svc.Standing(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 15, standing.Points)
	assert.Equal(t, 1, standing.Level)
}

func TestStandingForUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	standing, err := svc.Standing(context.Background(), id.UserID(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 0, standing.Points)
	assert.Equal(t, 1, standing.Level)
	assert.Empty(t, standing.Badges)
}

func TestLeaderboardOrderAndLevels(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	gold := id.UserID(uuid.New())
	silver := id.UserID(uuid.New())
	bronze := id.UserID(uuid.New())
	require.NoError(t, svc.Award(ctx, gold, 300, "seed"))
	require.NoError(t, svc.Award(ctx, silver, 200, "seed"))
	require.NoError(t, svc.Award(ctx, bronze, 100, "seed"))

	entries, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2, "limit truncates")

	assert.Equal(t, gold, entries[0].UserID)
	assert.Equal(t, 300, entries[0].Points)
	assert.Equal(t, 4, entries[0].Level)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, silver, entries[1].UserID)
	assert.Equal(t, 3, entries[1].Level)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	require.NoError(t, svc.Award(ctx, id.UserID(uuid.New()), 10, "seed"))

	entries, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type fixedCache struct {
	entries []*models.LeaderboardEntry
	sets    int
}

func (c *fixedCache) GetLeaderboard(context.Context, int) ([]*models.LeaderboardEntry, bool) {
	if c.entries == nil {
		return nil, false
	}
	return c.entries, true
}

func (c *fixedCache) SetLeaderboard(_ context.Context, _ int, entries []*models.LeaderboardEntry) {
	c.entries = entries
	c.sets++
}

func TestLeaderboardUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := &fixedCache{}
	st := store.NewInMemory()
	svc := New(st, cache, slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))

	userID := id.UserID(uuid.New())
	require.NoError(t, svc.Award(ctx, userID, 50, "seed"))

	first, err := svc.Leaderboard(ctx, 5)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	// A later award is invisible until the cache entry ages out.
	require.NoError(t, svc.Award(ctx, id.UserID(uuid.New()), 500, "seed"))
	cached, err := svc.Leaderboard(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, userID, cached[0].UserID)
}

func TestGrantBadge(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	userID := id.UserID(uuid.New())

	badge, err := svc.GrantBadge(ctx, userID, "first-post")
	require.NoError(t, err)
	assert.Equal(t, "first-post", badge.Name)

	standing, err := svc.Standing(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, standing.BadgeCount)
	require.Len(t, standing.Badges, 1)

	_, err = svc.GrantBadge(ctx, userID, "first-post")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestGrantBadgePartialUpdateWhenIndexFails(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	st.IncrementFailure = errors.New("index unavailable")
	userID := id.UserID(uuid.New())

	badge, err := svc.GrantBadge(ctx, userID, "contributor")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePartialUpdate))
	require.NotNil(t, badge, "the grant itself stands")

	badges, listErr := st.ListBadges(ctx, userID)
	require.NoError(t, listErr)
	assert.Len(t, badges, 1)
}
