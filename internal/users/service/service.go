// Package service holds user business logic: profile reads and updates,
// settings, and the find-or-create flow behind login. Authorization is the
// transport layer's job; this package assumes the caller was already gated.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/users/models"
	"hacklabconnect/internal/users/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(st store.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// FindOrCreateByEmail backs login: an unknown email creates a member on the
// spot, a known one returns the existing record.
func (s *Service) FindOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user by email")
	}

	now := time.Now()
	user = &models.User{
		ID:          id.UserID(uuid.New()),
		Email:       email,
		DisplayName: displayNameFromEmail(email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.store.Save(ctx, user)
	if errors.Is(err, sentinel.ErrConflict) {
		// Lost a race with a concurrent first login; the store's uniqueness
		// constraint is the arbiter, so read back the winner.
		return s.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create user")
	}

	s.metrics.UsersCreated.Inc()
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user by email")
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, update models.ProfileUpdate) (*models.User, error) {
	user, err := s.store.UpdateProfile(ctx, userID, update)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update profile")
	}
	return user, nil
}

// GetSettings returns the saved settings, or defaults for users who never
// touched them.
func (s *Service) GetSettings(ctx context.Context, userID id.UserID) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &models.Settings{
			UserID:             userID,
			EmailNotifications: true,
			Theme:              "system",
		}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get settings")
	}
	return settings, nil
}

func (s *Service) SaveSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	settings.UpdatedAt = time.Now()
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save settings")
	}
	return settings, nil
}

// List returns every member, newest first.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list users")
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	err := s.store.Delete(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete user")
	}
	return nil
}

// SetAdmin flips the admin flag. The gate reads the flag fresh on every
// authorization check, so the change takes effect on the next request.
func (s *Service) SetAdmin(ctx context.Context, userID id.UserID, isAdmin bool) error {
	err := s.store.SetAdmin(ctx, userID, isAdmin)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "set admin flag")
	}
	return nil
}

// IsAdmin satisfies the authorization gate's AdminChecker. It is a fresh
// store read every call; a user missing from the store is simply not admin.
func (s *Service) IsAdmin(ctx context.Context, userID id.UserID) (bool, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	return user.IsAdmin, nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "member"
	}
	return local
}
