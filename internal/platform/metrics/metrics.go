package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec

	UsersCreated           prometheus.Counter
	PostsCreated           prometheus.Counter
	PointsAwarded          prometheus.Counter
	NotificationsPublished prometheus.Counter
	OutboxPublishFailures  prometheus.Counter
}

// New creates and registers all metrics on the default registry, which
// the /metrics endpoint serves.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry so
// repeated construction never collides.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hacklab_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hacklab_users_created_total",
			Help: "Total number of users created",
		}),
		PostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hacklab_posts_created_total",
			Help: "Total number of posts created",
		}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "hacklab_points_awarded_total",
			Help: "Total gamification points awarded",
		}),
		NotificationsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "hacklab_notifications_published_total",
			Help: "Total notifications written for users",
		}),
		OutboxPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "hacklab_outbox_publish_failures_total",
			Help: "Outbox rows that failed to publish to Kafka",
		}),
	}
}
