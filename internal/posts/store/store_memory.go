package store

import (
	"context"
	"sort"
	"sync"

	"hacklabconnect/internal/posts/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
)

type likeKey struct {
	post id.PostID
	user id.UserID
}

type InMemoryStore struct {
	mu       sync.RWMutex
	posts    map[id.PostID]*models.Post
	comments map[id.CommentID]*models.Comment
	likes    map[likeKey]*models.Like
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		posts:    make(map[id.PostID]*models.Post),
		comments: make(map[id.CommentID]*models.Comment),
		likes:    make(map[likeKey]*models.Like),
	}
}

func (s *InMemoryStore) SavePost(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.posts[p.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindPost(ctx context.Context, postID id.PostID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *InMemoryStore) DeletePost(ctx context.Context, postID id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.posts, postID)
	for cid, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, cid)
		}
	}
	for key := range s.likes {
		if key.post == postID {
			delete(s.likes, key)
		}
	}
	return nil
}

func (s *InMemoryStore) ListByCommunity(ctx context.Context, communityID id.CommunityID) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.CommunityID == communityID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) SaveComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *c
	copied.Author = nil
	s.comments[c.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindComment(ctx context.Context, commentID id.CommentID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *InMemoryStore) DeleteComment(ctx context.Context, commentID id.CommentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[commentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.comments, commentID)
	return nil
}

func (s *InMemoryStore) ListComments(ctx context.Context, postID id.PostID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) AddLike(ctx context.Context, l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{post: l.PostID, user: l.UserID}
	if _, ok := s.likes[key]; ok {
		return sentinel.ErrConflict
	}
	copied := *l
	s.likes[key] = &copied
	return nil
}

func (s *InMemoryStore) FindLike(ctx context.Context, postID id.PostID, userID id.UserID) (*models.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.likes[likeKey{post: postID, user: userID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *InMemoryStore) RemoveLike(ctx context.Context, postID id.PostID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{post: postID, user: userID}
	if _, ok := s.likes[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.likes, key)
	return nil
}

func (s *InMemoryStore) CountLikes(ctx context.Context, postID id.PostID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.likes {
		if key.post == postID {
			count++
		}
	}
	return count, nil
}
