package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the process reads from the environment.
// Dev defaults keep `go run ./cmd/server` working with no env set; anything
// secret must be overridden in production.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres stores when set; empty falls back to
	// the in-memory stores used for local development.
	DatabaseURL string

	Redis RedisConfig

	JWTSigningKey string
	// SessionTTL is how long an issued session stays valid without use.
	SessionTTL time.Duration
	// SessionRefreshWindow is how long after expiry a session may still be
	// rotated instead of rejected.
	SessionRefreshWindow time.Duration

	// KafkaBrokers enables the outbox publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// LeaderboardCacheTTL bounds staleness of the cached leaderboard.
	LeaderboardCacheTTL time.Duration
}

// RedisConfig mirrors the knobs the redis wrapper applies on top of the URL.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:                 envOr("HACKLAB_ADDR", ":8080"),
		DatabaseURL:          os.Getenv("HACKLAB_DATABASE_URL"),
		JWTSigningKey:        envOr("HACKLAB_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:           envDuration("HACKLAB_SESSION_TTL", 24*time.Hour),
		SessionRefreshWindow: envDuration("HACKLAB_SESSION_REFRESH_WINDOW", 15*time.Minute),
		KafkaTopic:           envOr("HACKLAB_KAFKA_TOPIC", "hacklab.events"),
		LeaderboardCacheTTL:  envDuration("HACKLAB_LEADERBOARD_CACHE_TTL", 30*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("HACKLAB_REDIS_URL"),
			PoolSize:     envInt("HACKLAB_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("HACKLAB_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("HACKLAB_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("HACKLAB_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("HACKLAB_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}

	if brokers := os.Getenv("HACKLAB_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
