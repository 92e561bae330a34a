package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hacklabconnect/internal/communities/models"
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

const communityColumns = `id, name, description, created_by, created_at, updated_at`

func scanCommunity(row interface{ Scan(dest ...any) error }) (*models.Community, error) {
	var c models.Community
	var cid, creator uuid.UUID
	if err := row.Scan(&cid, &c.Name, &c.Description, &creator, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CommunityID(cid)
	c.CreatedBy = id.UserID(creator)
	return &c, nil
}

func (s *PostgresStore) Save(ctx context.Context, c *models.Community) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO communities (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(c.ID), c.Name, c.Description, uuid.UUID(c.CreatedBy), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, communityID id.CommunityID) (*models.Community, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+communityColumns+` FROM communities WHERE id = $1`, uuid.UUID(communityID))
	c, err := scanCommunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find community: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Update(ctx context.Context, communityID id.CommunityID, update models.CommunityUpdate) (*models.Community, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		UPDATE communities SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = $4
		WHERE id = $1
		RETURNING `+communityColumns,
		uuid.UUID(communityID), nullString(update.Name), nullString(update.Description), time.Now())
	c, err := scanCommunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update community: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, communityID id.CommunityID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM communities WHERE id = $1`, uuid.UUID(communityID))
	if err != nil {
		return fmt.Errorf("delete community: %w", err)
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

func (s *PostgresStore) List(ctx context.Context) ([]*models.Community, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+communityColumns+` FROM communities ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	defer rows.Close()

	var out []*models.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan community: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddMember(ctx context.Context, m *models.Membership) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO community_members (community_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(m.CommunityID), uuid.UUID(m.UserID), m.Role, m.JoinedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) (*models.Membership, error) {
	var m models.Membership
	var cid, uid uuid.UUID
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT community_id, user_id, role, joined_at
		FROM community_members WHERE community_id = $1 AND user_id = $2`,
		uuid.UUID(communityID), uuid.UUID(userID))
	err := row.Scan(&cid, &uid, &m.Role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	m.CommunityID = id.CommunityID(cid)
	m.UserID = id.UserID(uid)
	return &m, nil
}

func (s *PostgresStore) RemoveMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`,
		uuid.UUID(communityID), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
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

func (s *PostgresStore) ListMembers(ctx context.Context, communityID id.CommunityID) ([]*models.Membership, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT community_id, user_id, role, joined_at
		FROM community_members WHERE community_id = $1
		ORDER BY joined_at ASC`,
		uuid.UUID(communityID))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []*models.Membership
	for rows.Next() {
		var m models.Membership
		var cid, uid uuid.UUID
		if err := rows.Scan(&cid, &uid, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.CommunityID = id.CommunityID(cid)
		m.UserID = id.UserID(uid)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
