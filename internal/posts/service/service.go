package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/posts/models"
	"hacklabconnect/internal/posts/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

// Points awarded for contributions. Derived state: the points ledger is
// updated alongside the primary write as a composite operation.
const (
	PointsPerPost    = 10
	PointsPerComment = 5
)

// PointsAwarder appends to the gamification ledger. Satisfied by the
// gamification service.
type PointsAwarder interface {
	Award(ctx context.Context, userID id.UserID, points int, reason string) error
}

// Notifier delivers a notification to a user.
type Notifier interface {
	Push(ctx context.Context, userID id.UserID, kind, message string) error
}

// Profiles resolves the author fields embedded in comment listings.
type Profiles interface {
	Author(ctx context.Context, userID id.UserID) (*models.Author, error)
}

type Service struct {
	store    store.Store
	points   PointsAwarder
	notifier Notifier
	profiles Profiles
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(st store.Store, points PointsAwarder, notifier Notifier, profiles Profiles, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, points: points, notifier: notifier, profiles: profiles, logger: logger, metrics: m}
}

// Create inserts the post and awards the author's points. With a
// transactional store both writes commit or roll back together. Without
// one, a failed points award after the post insert surfaces as
// CodePartialUpdate: distinguishable from CodeInternal, where nothing
// happened.
func (s *Service) Create(ctx context.Context, author id.UserID, communityID id.CommunityID, title, content string) (*models.Post, error) {
	now := time.Now()
	p := &models.Post{
		ID:          id.PostID(uuid.New()),
		CommunityID: communityID,
		AuthorID:    author,
		Title:       title,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	write := func(ctx context.Context) error {
		if err := s.store.SavePost(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "save post")
		}
		if err := s.points.Award(ctx, author, PointsPerPost, "post created"); err != nil {
			return dErrors.Wrap(err, dErrors.CodePartialUpdate, "post created but points award failed")
		}
		return nil
	}

	if runner, ok := s.store.(store.TxRunner); ok {
		// One transaction: a partial failure inside rolls everything back.
		if err := runner.InTx(ctx, write); err != nil {
			if dErrors.Is(err, dErrors.CodePartialUpdate) {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create post")
			}
			return nil, err
		}
	} else {
		if err := write(ctx); err != nil {
			if dErrors.Is(err, dErrors.CodePartialUpdate) {
				// The post exists; report the degraded outcome with it.
				return p, err
			}
			return nil, err
		}
	}

	s.metrics.PostsCreated.Inc()
	return p, nil
}

func (s *Service) Get(ctx context.Context, postID id.PostID) (*models.Post, error) {
	p, err := s.store.FindPost(ctx, postID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "post not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find post")
	}
	return p, nil
}

func (s *Service) ListByCommunity(ctx context.Context, communityID id.CommunityID) ([]*models.Post, error) {
	out, err := s.store.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list posts")
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, postID id.PostID) error {
	err := s.store.DeletePost(ctx, postID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "post not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete post")
	}
	return nil
}

func (s *Service) Comment(ctx context.Context, author id.UserID, postID id.PostID, content string) (*models.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		ID:        id.CommentID(uuid.New()),
		PostID:    postID,
		AuthorID:  author,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveComment(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save comment")
	}

	if err := s.points.Award(ctx, author, PointsPerComment, "comment created"); err != nil {
		return c, dErrors.Wrap(err, dErrors.CodePartialUpdate, "comment created but points award failed")
	}

	s.notifyAuthor(ctx, post, author, "post.commented", "New comment on "+post.Title)
	return c, nil
}

// Comments lists a post's comments oldest first, each expanded with its
// author's display fields. Missing authors (deleted accounts) leave the
// embed nil rather than failing the listing.
func (s *Service) Comments(ctx context.Context, postID id.PostID) ([]*models.Comment, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list comments")
	}

	authors := make(map[id.UserID]*models.Author)
	for _, c := range comments {
		author, ok := authors[c.AuthorID]
		if !ok {
			author, err = s.profiles.Author(ctx, c.AuthorID)
			if err != nil {
				author = nil
			}
			authors[c.AuthorID] = author
		}
		c.Author = author
	}
	return comments, nil
}

func (s *Service) DeleteComment(ctx context.Context, commentID id.CommentID) error {
	err := s.store.DeleteComment(ctx, commentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "comment not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete comment")
	}
	return nil
}

func (s *Service) GetComment(ctx context.Context, commentID id.CommentID) (*models.Comment, error) {
	c, err := s.store.FindComment(ctx, commentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "comment not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find comment")
	}
	return c, nil
}

// Like is idempotent: liking a post twice keeps one record and reports
// created=false on the second call. Concurrent duplicates converge through
// the store's uniqueness constraint.
func (s *Service) Like(ctx context.Context, postID id.PostID, userID id.UserID) (*models.Like, bool, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	if existing, err := s.store.FindLike(ctx, postID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "find like")
	}

	l := &models.Like{PostID: postID, UserID: userID, CreatedAt: time.Now()}
	err = s.store.AddLike(ctx, l)
	if errors.Is(err, sentinel.ErrConflict) {
		existing, findErr := s.store.FindLike(ctx, postID, userID)
		if findErr != nil {
			return nil, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "find like after conflict")
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "add like")
	}

	s.notifyAuthor(ctx, post, userID, "post.liked", "Someone liked "+post.Title)
	return l, true, nil
}

func (s *Service) Unlike(ctx context.Context, postID id.PostID, userID id.UserID) error {
	err := s.store.RemoveLike(ctx, postID, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "like not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove like")
	}
	return nil
}

func (s *Service) LikeCount(ctx context.Context, postID id.PostID) (int, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return 0, err
	}
	count, err := s.store.CountLikes(ctx, postID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "count likes")
	}
	return count, nil
}

func (s *Service) notifyAuthor(ctx context.Context, post *models.Post, actor id.UserID, kind, message string) {
	if post.AuthorID == actor {
		return
	}
	if err := s.notifier.Push(ctx, post.AuthorID, kind, message); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			"kind", kind,
			"post_id", post.ID.String(),
			"error", err.Error(),
		)
	}
}
