package store

import (
	"context"
	"sort"
	"sync"

	"hacklabconnect/internal/gamification/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
)

type badgeKey struct {
	userID id.UserID
	name   string
}

type InMemoryStore struct {
	mu          sync.RWMutex
	entries     []*models.PointsEntry
	badges      map[badgeKey]*models.Badge
	badgeCounts map[id.UserID]int

	// IncrementFailure, when set, is returned by IncrementBadgeCount.
	// Tests use it to exercise partial badge grants.
	IncrementFailure error
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		badges:      make(map[badgeKey]*models.Badge),
		badgeCounts: make(map[id.UserID]int),
	}
}

func (s *InMemoryStore) AddEntry(_ context.Context, entry *models.PointsEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *InMemoryStore) TotalPoints(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, e := range s.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

func (s *InMemoryStore) TopScores(_ context.Context, limit int) ([]Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := make(map[id.UserID]int)
	for _, e := range s.entries {
		totals[e.UserID] += e.Points
	}
	out := make([]Score, 0, len(totals))
	for userID, points := range totals {
		out = append(out, Score{UserID: userID, Points: points})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) AddBadge(_ context.Context, badge *models.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := badgeKey{userID: badge.UserID, name: badge.Name}
	if _, ok := s.badges[key]; ok {
		return sentinel.ErrConflict
	}
	cp := *badge
	s.badges[key] = &cp
	return nil
}

func (s *InMemoryStore) ListBadges(_ context.Context, userID id.UserID) ([]*models.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Badge
	for _, b := range s.badges {
		if b.UserID != userID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.Before(out[j].AwardedAt) })
	return out, nil
}

func (s *InMemoryStore) IncrementBadgeCount(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IncrementFailure != nil {
		return s.IncrementFailure
	}
	s.badgeCounts[userID]++
	return nil
}

func (s *InMemoryStore) BadgeCount(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badgeCounts[userID], nil
}
