package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hacklabconnect/internal/resources/models"
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

const resourceColumns = `id, community_id, title, category, url, file_ref, created_by, created_at`

func scanResource(row interface{ Scan(dest ...any) error }) (*models.Resource, error) {
	var r models.Resource
	var rid, cid, creator uuid.UUID
	if err := row.Scan(&rid, &cid, &r.Title, &r.Category, &r.URL, &r.FileRef, &creator, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ID = id.ResourceID(rid)
	r.CommunityID = id.CommunityID(cid)
	r.CreatedBy = id.UserID(creator)
	return &r, nil
}

func (s *PostgresStore) Save(ctx context.Context, r *models.Resource) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO resources (id, community_id, title, category, url, file_ref, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(r.ID), uuid.UUID(r.CommunityID), r.Title, r.Category, r.URL, r.FileRef,
		uuid.UUID(r.CreatedBy), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, uuid.UUID(resourceID))
	r, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) Delete(ctx context.Context, resourceID id.ResourceID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM resources WHERE id = $1`, uuid.UUID(resourceID))
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
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

func (s *PostgresStore) List(ctx context.Context, communityID *id.CommunityID) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources`
	var args []any
	if communityID != nil {
		query += ` WHERE community_id = $1`
		args = append(args, uuid.UUID(*communityID))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []*models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
