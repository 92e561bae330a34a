package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hacklabconnect/internal/admin/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
	txcontext "hacklabconnect/pkg/platform/tx"
)

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

const reportColumns = `id, reporter_id, subject, reason, status, created_at, resolved_at, resolved_by`

func scanReport(row interface{ Scan(dest ...any) error }) (*models.Report, error) {
	var r models.Report
	var rid, reporter uuid.UUID
	var resolvedBy uuid.NullUUID
	if err := row.Scan(&rid, &reporter, &r.Subject, &r.Reason, &r.Status, &r.CreatedAt, &r.ResolvedAt, &resolvedBy); err != nil {
		return nil, err
	}
	r.ID = id.ReportID(rid)
	r.ReporterID = id.UserID(reporter)
	if resolvedBy.Valid {
		uid := id.UserID(resolvedBy.UUID)
		r.ResolvedBy = &uid
	}
	return &r, nil
}

func (s *PostgresStore) Save(ctx context.Context, r *models.Report) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO reports (id, reporter_id, subject, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(r.ID), uuid.UUID(r.ReporterID), r.Subject, r.Reason, r.Status, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, reportID id.ReportID) (*models.Report, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, uuid.UUID(reportID))
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Report, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports
		ORDER BY (status = 'open') DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, r *models.Report) error {
	var resolvedBy uuid.NullUUID
	if r.ResolvedBy != nil {
		resolvedBy = uuid.NullUUID{UUID: uuid.UUID(*r.ResolvedBy), Valid: true}
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE reports SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $1`,
		uuid.UUID(r.ID), r.Status, r.ResolvedAt, resolvedBy)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
