package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	adminhandler "hacklabconnect/internal/admin/handler"
	adminservice "hacklabconnect/internal/admin/service"
	adminstore "hacklabconnect/internal/admin/store"
	"hacklabconnect/internal/authz"
	badgeshandler "hacklabconnect/internal/badges/handler"
	communitieshandler "hacklabconnect/internal/communities/handler"
	communitiesservice "hacklabconnect/internal/communities/service"
	communitiesstore "hacklabconnect/internal/communities/store"
	"hacklabconnect/internal/events"
	gamificationhandler "hacklabconnect/internal/gamification/handler"
	gamificationservice "hacklabconnect/internal/gamification/service"
	gamificationstore "hacklabconnect/internal/gamification/store"
	notificationshandler "hacklabconnect/internal/notifications/handler"
	notificationsservice "hacklabconnect/internal/notifications/service"
	notificationsstore "hacklabconnect/internal/notifications/store"
	"hacklabconnect/internal/platform/config"
	"hacklabconnect/internal/platform/httpserver"
	"hacklabconnect/internal/platform/logger"
	"hacklabconnect/internal/platform/metrics"
	platformredis "hacklabconnect/internal/platform/redis"
	"hacklabconnect/internal/posts/adapters"
	postshandler "hacklabconnect/internal/posts/handler"
	postsservice "hacklabconnect/internal/posts/service"
	postsstore "hacklabconnect/internal/posts/store"
	resourceshandler "hacklabconnect/internal/resources/handler"
	resourcesservice "hacklabconnect/internal/resources/service"
	resourcesstore "hacklabconnect/internal/resources/store"
	"hacklabconnect/internal/session"
	transport "hacklabconnect/internal/transport/http"
	usershandler "hacklabconnect/internal/users/handler"
	usersservice "hacklabconnect/internal/users/service"
	usersstore "hacklabconnect/internal/users/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Stores: postgres when a database is configured, in-memory otherwise.
	var (
		userStore         usersstore.Store
		communityStore    communitiesstore.Store
		postStore         postsstore.Store
		resourceStore     resourcesstore.Store
		notificationStore notificationsstore.Store
		gamificationStore gamificationstore.Store
		reportStore       adminstore.Store
		outbox            events.OutboxStore
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		userStore = usersstore.NewPostgres(db)
		communityStore = communitiesstore.NewPostgres(db)
		postStore = postsstore.NewPostgres(db)
		resourceStore = resourcesstore.NewPostgres(db)
		notificationStore = notificationsstore.NewPostgres(db)
		gamificationStore = gamificationstore.NewPostgres(db)
		reportStore = adminstore.NewPostgres(db)
		outbox = events.NewPostgresOutbox(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		userStore = usersstore.NewInMemory()
		communityStore = communitiesstore.NewInMemory()
		postStore = postsstore.NewInMemory()
		resourceStore = resourcesstore.NewInMemory()
		notificationStore = notificationsstore.NewInMemory()
		gamificationStore = gamificationstore.NewInMemory()
		reportStore = adminstore.NewInMemory()
		outbox = events.NewInMemoryOutbox()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var sessionStore session.Store
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient, cfg.SessionRefreshWindow)
	} else {
		log.Warn("no redis configured, sessions held in memory")
		sessionStore = session.NewInMemoryStore()
	}
	sessions := session.NewService(sessionStore, cfg.JWTSigningKey, cfg.SessionTTL, cfg.SessionRefreshWindow)

	users := usersservice.New(userStore, log, m)
	gate := authz.NewGate(users)

	notifications := notificationsservice.New(notificationStore, outbox, log, m)

	var leaderboardCache gamificationservice.Cache
	if redisClient != nil {
		leaderboardCache = gamificationservice.NewRedisCache(redisClient, cfg.LeaderboardCacheTTL, log)
	}
	gamification := gamificationservice.New(gamificationStore, leaderboardCache, log, m)

	communities := communitiesservice.New(communityStore, notifications, log)
	posts := postsservice.New(postStore, gamification, notifications, adapters.NewUserProfiles(users), log, m)
	resources := resourcesservice.New(resourceStore)
	admin := adminservice.New(reportStore, users, sessions, log)

	router := transport.NewRouter(log, m, sessions,
		usershandler.New(users, sessions, gate, log),
		communitieshandler.New(communities, gate, log),
		postshandler.New(posts, gate, log),
		resourceshandler.New(resources, gate, log),
		notificationshandler.New(notifications, gate, log),
		gamificationhandler.New(gamification, gate, log),
		badgeshandler.New(),
		adminhandler.New(admin, gate, log),
	)
	server := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	// The outbox drains only when a broker is configured; without one,
	// rows accumulate until an operator points the service at Kafka.
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		worker := events.NewWorker(outbox, publisher, log, m)
		g.Go(func() error {
			err := worker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		log.Warn("no kafka brokers configured, outbox events will not be published")
	}

	return g.Wait()
}
