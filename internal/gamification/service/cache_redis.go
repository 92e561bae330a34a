package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hacklabconnect/internal/gamification/models"
	platformredis "hacklabconnect/internal/platform/redis"
)

// RedisCache keeps computed leaderboards in Redis, one key per limit.
// Cache failures degrade to a store read and are logged, never surfaced.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func leaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:%d", limit)
}

func (c *RedisCache) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, leaderboardKey(limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.logger.WarnContext(ctx, "leaderboard cache entry unreadable", "error", err.Error())
		return nil, false
	}
	return entries, true
}

func (c *RedisCache) SetLeaderboard(ctx context.Context, limit int, entries []*models.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, leaderboardKey(limit), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "leaderboard cache write failed", "error", err.Error())
	}
}
