package events

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"hacklabconnect/pkg/platform/sentinel"
)

type InMemoryOutbox struct {
	mu   sync.Mutex
	rows []*OutboxRow
}

func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{}
}

func (o *InMemoryOutbox) Append(_ context.Context, row *OutboxRow) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := *row
	o.rows = append(o.rows, &cp)
	return nil
}

func (o *InMemoryOutbox) Pending(_ context.Context, limit int) ([]*OutboxRow, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*OutboxRow, 0, limit)
	for _, row := range o.rows {
		if len(out) == limit {
			break
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (o *InMemoryOutbox) MarkPublished(_ context.Context, rowID uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, row := range o.rows {
		if row.ID == rowID {
			o.rows = append(o.rows[:i], o.rows[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (o *InMemoryOutbox) MarkFailed(_ context.Context, rowID uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, row := range o.rows {
		if row.ID == rowID {
			row.Attempts++
			return nil
		}
	}
	return sentinel.ErrNotFound
}
