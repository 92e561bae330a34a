package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/posts/models"
	"hacklabconnect/internal/posts/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

type stubPoints struct {
	fail   error
	awards map[id.UserID]int
}

func (p *stubPoints) Award(_ context.Context, userID id.UserID, points int, _ string) error {
	if p.fail != nil {
		return p.fail
	}
	if p.awards == nil {
		p.awards = make(map[id.UserID]int)
	}
	p.awards[userID] += points
	return nil
}

type stubNotifier struct {
	kinds []string
}

func (n *stubNotifier) Push(_ context.Context, _ id.UserID, kind, _ string) error {
	n.kinds = append(n.kinds, kind)
	return nil
}

type stubProfiles struct {
	names map[id.UserID]string
}

func (p *stubProfiles) Author(_ context.Context, userID id.UserID) (*models.Author, error) {
	name, ok := p.names[userID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return &models.Author{ID: userID, DisplayName: name}, nil
}

type fixture struct {
	svc      *Service
	points   *stubPoints
	notifier *stubNotifier
	profiles *stubProfiles
}

func newFixture() *fixture {
	points := &stubPoints{}
	notifier := &stubNotifier{}
	profiles := &stubProfiles{names: make(map[id.UserID]string)}
	svc := New(store.NewInMemory(), points, notifier, profiles,
		slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))
	return &fixture{svc: svc, points: points, notifier: notifier, profiles: profiles}
}

func TestCreateAwardsPoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)
	assert.Equal(t, author, post.AuthorID)
	assert.Equal(t, PointsPerPost, f.points.awards[author])
}

func TestCreatePartialUpdateWhenPointsFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.points.fail = errors.New("ledger unavailable")
	author := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePartialUpdate))

	// The primary write stands; the caller gets the post alongside the error.
	require.NotNil(t, post)
	saved, getErr := f.svc.Get(ctx, post.ID)
	require.NoError(t, getErr)
	assert.Equal(t, post.ID, saved.ID)
}

func TestCommentAwardsPointsAndNotifiesAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())
	commenter := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)

	comment, err := f.svc.Comment(ctx, commenter, post.ID, "nice work")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, PointsPerComment, f.points.awards[commenter])
	assert.Contains(t, f.notifier.kinds, "post.commented")
}

func TestCommentOnOwnPostDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)

	_, err = f.svc.Comment(ctx, author, post.ID, "self reply")
	require.NoError(t, err)
	assert.NotContains(t, f.notifier.kinds, "post.commented")
}

func TestCommentsEmbedAuthors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())
	commenter := id.UserID(uuid.New())
	f.profiles.names[commenter] = "Ada"

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)
	_, err = f.svc.Comment(ctx, commenter, post.ID, "first")
	require.NoError(t, err)

	comments, err := f.svc.Comments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "Ada", comments[0].Author.DisplayName)
}

func TestCommentsMissingAuthorOmitsEmbed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())
	ghost := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)
	_, err = f.svc.Comment(ctx, ghost, post.ID, "from a deleted account")
	require.NoError(t, err)

	comments, err := f.svc.Comments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Nil(t, comments[0].Author, "a vanished author never fails the listing")
}

func TestLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())
	liker := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)

	_, created, err := f.svc.Like(ctx, post.ID, liker)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = f.svc.Like(ctx, post.ID, liker)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := f.svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "double like leaves exactly one record")
}

func TestUnlikeMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)

	err = f.svc.Unlike(ctx, post.ID, id.UserID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	author := id.UserID(uuid.New())

	post, err := f.svc.Create(ctx, author, id.CommunityID(uuid.New()), "title", "content")
	require.NoError(t, err)
	_, err = f.svc.Comment(ctx, author, post.ID, "note")
	require.NoError(t, err)
	_, _, err = f.svc.Like(ctx, post.ID, id.UserID(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, post.ID))

	_, err = f.svc.Get(ctx, post.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = f.svc.Comments(ctx, post.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
