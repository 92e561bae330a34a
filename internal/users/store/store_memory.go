package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hacklabconnect/internal/users/models"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/platform/sentinel"
)

// InMemoryStore is the development and test stand-in for the postgres
// store. Email uniqueness is enforced here the same way the database
// constraint does it in production.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[id.UserID]*models.User
	byEmail  map[string]id.UserID
	settings map[id.UserID]*models.Settings
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[id.UserID]*models.User),
		byEmail:  make(map[string]id.UserID),
		settings: make(map[id.UserID]*models.Settings),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InMemoryStore) Save(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(user.Email)
	if existing, ok := s.byEmail[email]; ok && existing != user.ID {
		return sentinel.ErrConflict
	}

	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[email] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.users[userID]
	return &copied, nil
}

func (s *InMemoryStore) UpdateProfile(ctx context.Context, userID id.UserID, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (s *InMemoryStore) SetAdmin(ctx context.Context, userID id.UserID, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.IsAdmin = admin
	user.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, normalizeEmail(user.Email))
	delete(s.users, userID)
	delete(s.settings, userID)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) GetSettings(ctx context.Context, userID id.UserID) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (s *InMemoryStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *settings
	s.settings[settings.UserID] = &copied
	return nil
}
