// Package service delivers notifications. Push writes the inbox row first
// and then queues the matching event for external delivery; a queue
// failure after the row is written surfaces as a partial update so the
// caller knows the inbox entry exists.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/events"
	"hacklabconnect/internal/notifications/models"
	"hacklabconnect/internal/notifications/store"
	"hacklabconnect/internal/platform/metrics"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

type Service struct {
	store   store.Store
	outbox  events.OutboxStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st store.Store, outbox events.OutboxStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, outbox: outbox, logger: logger, metrics: m, now: time.Now}
}

type notificationEvent struct {
	NotificationID id.NotificationID `json:"notificationId"`
	UserID         id.UserID         `json:"userId"`
	Kind           string            `json:"kind"`
	Message        string            `json:"message"`
}

// Push writes an inbox entry and queues the event. It backs the Notifier
// dependency of the feature services; callers treat failures as
// best-effort and never roll back their primary write over one.
func (s *Service) Push(ctx context.Context, userID id.UserID, kind, message string) error {
	n := &models.Notification{
		ID:        id.NotificationID(uuid.New()),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, n); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save notification")
	}
	s.metrics.NotificationsPublished.Inc()

	err := events.Append(ctx, s.outbox, kind, notificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Kind:           n.Kind,
		Message:        n.Message,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodePartialUpdate, "notification saved but event not queued")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Notification, error) {
	out, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list notifications")
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID id.UserID) (int, error) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "count unread notifications")
	}
	return count, nil
}

func (s *Service) Get(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	n, err := s.store.FindByID(ctx, notificationID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find notification")
	}
	return n, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds
// and returns it unchanged.
func (s *Service) MarkRead(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	n, err := s.store.MarkRead(ctx, notificationID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mark notification read")
	}
	return n, nil
}
