package store

import (
	"context"
	"sort"
	"sync"

	"hacklabconnect/internal/resources/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	resources map[id.ResourceID]*models.Resource
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{resources: make(map[id.ResourceID]*models.Resource)}
}

func (s *InMemoryStore) Save(_ context.Context, r *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.resources[r.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[resourceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemoryStore) Delete(_ context.Context, resourceID id.ResourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[resourceID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.resources, resourceID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, communityID *id.CommunityID) ([]*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Resource
	for _, r := range s.resources {
		if communityID != nil && r.CommunityID != *communityID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
