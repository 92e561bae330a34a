package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hacklabconnect/internal/gamification/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
	txcontext "hacklabconnect/pkg/platform/tx"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) AddEntry(ctx context.Context, entry *models.PointsEntry) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO points_ledger (id, user_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, uuid.UUID(entry.UserID), entry.Points, entry.Reason, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert points entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) TotalPoints(ctx context.Context, userID id.UserID) (int, error) {
	var total int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM points_ledger WHERE user_id = $1`,
		uuid.UUID(userID)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) TopScores(ctx context.Context, limit int) ([]Score, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT user_id, SUM(points) AS total
		FROM points_ledger
		GROUP BY user_id
		ORDER BY total DESC, user_id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top scores: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var uid uuid.UUID
		var points int
		if err := rows.Scan(&uid, &points); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, Score{UserID: id.UserID(uid), Points: points})
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddBadge(ctx context.Context, badge *models.Badge) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO badges (id, user_id, name, awarded_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(badge.ID), uuid.UUID(badge.UserID), badge.Name, badge.AwardedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert badge: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBadges(ctx context.Context, userID id.UserID) ([]*models.Badge, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, user_id, name, awarded_at FROM badges
		WHERE user_id = $1 ORDER BY awarded_at ASC`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []*models.Badge
	for rows.Next() {
		var b models.Badge
		var bid, uid uuid.UUID
		if err := rows.Scan(&bid, &uid, &b.Name, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.ID = id.BadgeID(bid)
		b.UserID = id.UserID(uid)
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) IncrementBadgeCount(ctx context.Context, userID id.UserID) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO badge_counts (user_id, count) VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET count = badge_counts.count + 1`,
		uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("increment badge count: %w", err)
	}
	return nil
}

func (s *PostgresStore) BadgeCount(ctx context.Context, userID id.UserID) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT count FROM badge_counts WHERE user_id = $1`, uuid.UUID(userID)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read badge count: %w", err)
	}
	return count, nil
}
