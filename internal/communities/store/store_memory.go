package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"hacklabconnect/internal/communities/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
)

type memberKey struct {
	community id.CommunityID
	user      id.UserID
}

// InMemoryStore mirrors the postgres store for development and tests,
// including the composite uniqueness of memberships.
type InMemoryStore struct {
	mu          sync.RWMutex
	communities map[id.CommunityID]*models.Community
	members     map[memberKey]*models.Membership
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		communities: make(map[id.CommunityID]*models.Community),
		members:     make(map[memberKey]*models.Membership),
	}
}

func (s *InMemoryStore) Save(ctx context.Context, c *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *c
	s.communities[c.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, communityID id.CommunityID) (*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communities[communityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *InMemoryStore) Update(ctx context.Context, communityID id.CommunityID, update models.CommunityUpdate) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[communityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	c.UpdatedAt = time.Now()
	copied := *c
	return &copied, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, communityID id.CommunityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.communities[communityID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.communities, communityID)
	for key := range s.members {
		if key.community == communityID {
			delete(s.members, key)
		}
	}
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Community, 0, len(s.communities))
	for _, c := range s.communities {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) AddMember(ctx context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey{community: m.CommunityID, user: m.UserID}
	if _, ok := s.members[key]; ok {
		return sentinel.ErrConflict
	}
	copied := *m
	s.members[key] = &copied
	return nil
}

func (s *InMemoryStore) FindMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberKey{community: communityID, user: userID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *InMemoryStore) RemoveMember(ctx context.Context, communityID id.CommunityID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey{community: communityID, user: userID}
	if _, ok := s.members[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.members, key)
	return nil
}

func (s *InMemoryStore) ListMembers(ctx context.Context, communityID id.CommunityID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Membership
	for key, m := range s.members {
		if key.community == communityID {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}
