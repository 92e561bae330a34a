package events

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	txcontext "hacklabconnect/pkg/platform/tx"
)

type PostgresOutbox struct {
	db *sql.DB
}

func NewPostgresOutbox(db *sql.DB) *PostgresOutbox {
	return &PostgresOutbox{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (o *PostgresOutbox) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return o.db
}

func (o *PostgresOutbox) Append(ctx context.Context, row *OutboxRow) error {
	_, err := o.execer(ctx).ExecContext(ctx, `
		INSERT INTO event_outbox (id, kind, payload, occurred_at, attempts)
		VALUES ($1, $2, $3, $4, 0)`,
		row.ID, row.Kind, []byte(row.Payload), row.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert outbox row: %w", err)
	}
	return nil
}

func (o *PostgresOutbox) Pending(ctx context.Context, limit int) ([]*OutboxRow, error) {
	rows, err := o.execer(ctx).QueryContext(ctx, `
		SELECT id, kind, payload, occurred_at, attempts
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY occurred_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox rows: %w", err)
	}
	defer rows.Close()

	var out []*OutboxRow
	for rows.Next() {
		var row OutboxRow
		var payload []byte
		if err := rows.Scan(&row.ID, &row.Kind, &payload, &row.OccurredAt, &row.Attempts); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		row.Payload = payload
		out = append(out, &row)
	}
	return out, rows.Err()
}

func (o *PostgresOutbox) MarkPublished(ctx context.Context, rowID uuid.UUID) error {
	_, err := o.execer(ctx).ExecContext(ctx,
		`UPDATE event_outbox SET published_at = NOW() WHERE id = $1`, rowID)
	if err != nil {
		return fmt.Errorf("mark outbox row published: %w", err)
	}
	return nil
}

func (o *PostgresOutbox) MarkFailed(ctx context.Context, rowID uuid.UUID) error {
	_, err := o.execer(ctx).ExecContext(ctx,
		`UPDATE event_outbox SET attempts = attempts + 1 WHERE id = $1`, rowID)
	if err != nil {
		return fmt.Errorf("mark outbox row failed: %w", err)
	}
	return nil
}
