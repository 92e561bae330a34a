// Package events carries side effects out of the request path. Writes
// append a row to an outbox in the same store as the primary record; a
// background worker drains the outbox to Kafka. A broker outage therefore
// delays delivery but never fails the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the published event shape. Payload is event-specific JSON.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// OutboxRow is an envelope pending publication.
type OutboxRow struct {
	ID         uuid.UUID
	Kind       string
	Payload    json.RawMessage
	OccurredAt time.Time
	Attempts   int
}

// OutboxStore queues envelopes for the drain worker. Append runs inside
// the caller's transaction when one is ambient.
type OutboxStore interface {
	Append(ctx context.Context, row *OutboxRow) error
	// Pending returns unpublished rows oldest first, up to limit.
	Pending(ctx context.Context, limit int) ([]*OutboxRow, error)
	MarkPublished(ctx context.Context, rowID uuid.UUID) error
	MarkFailed(ctx context.Context, rowID uuid.UUID) error
}

// Append marshals an event payload and queues it.
func Append(ctx context.Context, store OutboxStore, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	return store.Append(ctx, &OutboxRow{
		ID:         uuid.New(),
		Kind:       kind,
		Payload:    raw,
		OccurredAt: time.Now(),
	})
}
