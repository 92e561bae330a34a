package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hacklabconnect/internal/posts/models"
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

// InTx runs fn inside a single transaction, carried through the context so
// any postgres store touched by fn joins it.
func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(txcontext.WithTx(ctx, dbTx)); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const postColumns = `id, community_id, author_id, title, content, created_at, updated_at`

func scanPost(row interface{ Scan(dest ...any) error }) (*models.Post, error) {
	var p models.Post
	var pid, cid, aid uuid.UUID
	if err := row.Scan(&pid, &cid, &aid, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.PostID(pid)
	p.CommunityID = id.CommunityID(cid)
	p.AuthorID = id.UserID(aid)
	return &p, nil
}

func (s *PostgresStore) SavePost(ctx context.Context, p *models.Post) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO posts (id, community_id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(p.ID), uuid.UUID(p.CommunityID), uuid.UUID(p.AuthorID),
		p.Title, p.Content, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPost(ctx context.Context, postID id.PostID) (*models.Post, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, uuid.UUID(postID))
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, postID id.PostID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`, uuid.UUID(postID))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return noneAffectedToNotFound(res)
}

func (s *PostgresStore) ListByCommunity(ctx context.Context, communityID id.CommunityID) ([]*models.Post, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE community_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(communityID))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveComment(ctx context.Context, c *models.Comment) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(c.ID), uuid.UUID(c.PostID), uuid.UUID(c.AuthorID), c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindComment(ctx context.Context, commentID id.CommentID) (*models.Comment, error) {
	var c models.Comment
	var cid, pid, aid uuid.UUID
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE id = $1`,
		uuid.UUID(commentID))
	err := row.Scan(&cid, &pid, &aid, &c.Content, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	c.ID = id.CommentID(cid)
	c.PostID = id.PostID(pid)
	c.AuthorID = id.UserID(aid)
	return &c, nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, commentID id.CommentID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`, uuid.UUID(commentID))
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return noneAffectedToNotFound(res)
}

func (s *PostgresStore) ListComments(ctx context.Context, postID id.PostID) ([]*models.Comment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments WHERE post_id = $1 ORDER BY created_at ASC`,
		uuid.UUID(postID))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		var cid, pid, aid uuid.UUID
		if err := rows.Scan(&cid, &pid, &aid, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ID = id.CommentID(cid)
		c.PostID = id.PostID(pid)
		c.AuthorID = id.UserID(aid)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddLike(ctx context.Context, l *models.Like) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)`,
		uuid.UUID(l.PostID), uuid.UUID(l.UserID), l.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindLike(ctx context.Context, postID id.PostID, userID id.UserID) (*models.Like, error) {
	var l models.Like
	var pid, uid uuid.UUID
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT post_id, user_id, created_at FROM likes WHERE post_id = $1 AND user_id = $2`,
		uuid.UUID(postID), uuid.UUID(userID))
	err := row.Scan(&pid, &uid, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	l.PostID = id.PostID(pid)
	l.UserID = id.UserID(uid)
	return &l, nil
}

func (s *PostgresStore) RemoveLike(ctx context.Context, postID id.PostID, userID id.UserID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`,
		uuid.UUID(postID), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return noneAffectedToNotFound(res)
}

func (s *PostgresStore) CountLikes(ctx context.Context, postID id.PostID) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM likes WHERE post_id = $1`, uuid.UUID(postID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func noneAffectedToNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
