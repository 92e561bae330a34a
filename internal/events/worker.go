package events

import (
	"context"
	"log/slog"
	"time"

	"hacklabconnect/internal/platform/metrics"
)

const (
	drainInterval = 2 * time.Second
	drainBatch    = 100
)

// Worker drains the outbox to the publisher on an interval. A publish
// failure leaves the row pending with its attempt count bumped; the next
// tick retries it.
type Worker struct {
	outbox    OutboxStore
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewWorker(outbox OutboxStore, publisher Publisher, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{outbox: outbox, publisher: publisher, logger: logger, metrics: m}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	rows, err := w.outbox.Pending(ctx, drainBatch)
	if err != nil {
		w.logger.ErrorContext(ctx, "outbox read failed", "error", err.Error())
		return
	}

	for _, row := range rows {
		env := Envelope{ID: row.ID, Kind: row.Kind, Payload: row.Payload, OccurredAt: row.OccurredAt}
		if err := w.publisher.Publish(ctx, env); err != nil {
			w.metrics.OutboxPublishFailures.Inc()
			w.logger.ErrorContext(ctx, "event publish failed",
				"event_id", row.ID.String(),
				"kind", row.Kind,
				"attempts", row.Attempts+1,
				"error", err.Error(),
			)
			if err := w.outbox.MarkFailed(ctx, row.ID); err != nil {
				w.logger.ErrorContext(ctx, "outbox update failed", "error", err.Error())
			}
			continue
		}
		if err := w.outbox.MarkPublished(ctx, row.ID); err != nil {
			w.logger.ErrorContext(ctx, "outbox update failed", "error", err.Error())
		}
	}
}
