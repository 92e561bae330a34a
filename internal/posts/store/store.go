package store

import (
	"context"

	"hacklabconnect/internal/posts/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	SavePost(ctx context.Context, p *models.Post) error
	FindPost(ctx context.Context, postID id.PostID) (*models.Post, error)
	DeletePost(ctx context.Context, postID id.PostID) error
	// ListByCommunity returns posts ordered by creation time descending.
	ListByCommunity(ctx context.Context, communityID id.CommunityID) ([]*models.Post, error)

	SaveComment(ctx context.Context, c *models.Comment) error
	FindComment(ctx context.Context, commentID id.CommentID) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID id.CommentID) error
	// ListComments returns a post's comments ordered by creation time
	// ascending, authors not expanded.
	ListComments(ctx context.Context, postID id.PostID) ([]*models.Comment, error)

	// AddLike inserts a like; sentinel.ErrConflict when the (post, user)
	// pair already exists.
	AddLike(ctx context.Context, l *models.Like) error
	FindLike(ctx context.Context, postID id.PostID, userID id.UserID) (*models.Like, error)
	RemoveLike(ctx context.Context, postID id.PostID, userID id.UserID) error
	CountLikes(ctx context.Context, postID id.PostID) (int, error)
}

// TxRunner is implemented by stores that can run a function inside one
// database transaction, with the transaction carried through the context so
// other postgres stores join it. The in-memory store does not implement it;
// composite operations then fall back to sequential writes with
// partial-failure reporting.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
