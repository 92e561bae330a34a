package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/platform/metrics"
)

type fakePublisher struct {
	published []Envelope
	fail      error
}

func (p *fakePublisher) Publish(_ context.Context, env Envelope) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, env)
	return nil
}

func (p *fakePublisher) Close() {}

func TestDrainPublishesAndClearsRows(t *testing.T) {
	ctx := context.Background()
	outbox := NewInMemoryOutbox()
	publisher := &fakePublisher{}
	worker := NewWorker(outbox, publisher, slog.New(slog.DiscardHandler),
		metrics.NewWith(prometheus.NewRegistry()))

	require.NoError(t, Append(ctx, outbox, "post.liked", map[string]string{"postId": "x"}))
	require.NoError(t, Append(ctx, outbox, "community.joined", map[string]string{"communityId": "y"}))

	worker.drain(ctx)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, "post.liked", publisher.published[0].Kind)

	pending, err := outbox.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDrainKeepsRowOnPublishFailure(t *testing.T) {
	ctx := context.Background()
	outbox := NewInMemoryOutbox()
	publisher := &fakePublisher{fail: errors.New("broker unreachable")}
	worker := NewWorker(outbox, publisher, slog.New(slog.DiscardHandler),
		metrics.NewWith(prometheus.NewRegistry()))

	require.NoError(t, Append(ctx, outbox, "post.liked", map[string]string{"postId": "x"}))

	worker.drain(ctx)

	pending, err := outbox.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)

	// Broker recovers; the next tick delivers the row.
	publisher.fail = nil
	worker.drain(ctx)

	pending, err = outbox.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Len(t, publisher.published, 1)
}
