package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/communities/models"
	"hacklabconnect/internal/communities/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

// Notifier delivers a notification to a user. Satisfied by the
// notifications service; declared here so this package depends on the
// behavior, not the package.
type Notifier interface {
	Push(ctx context.Context, userID id.UserID, kind, message string) error
}

type Service struct {
	store    store.Store
	notifier Notifier
	logger   *slog.Logger
}

func New(st store.Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: st, notifier: notifier, logger: logger}
}

func (s *Service) Create(ctx context.Context, creator id.UserID, name, description string) (*models.Community, error) {
	now := time.Now()
	c := &models.Community{
		ID:          id.CommunityID(uuid.New()),
		Name:        name,
		Description: description,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create community")
	}

	// The creator is the first member, as owner.
	err := s.store.AddMember(ctx, &models.Membership{
		CommunityID: c.ID,
		UserID:      creator,
		Role:        models.RoleOwner,
		JoinedAt:    now,
	})
	if err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return c, dErrors.Wrap(err, dErrors.CodePartialUpdate, "community created but owner membership failed")
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, communityID id.CommunityID) (*models.Community, error) {
	c, err := s.store.FindByID(ctx, communityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "community not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find community")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Community, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list communities")
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, communityID id.CommunityID, update models.CommunityUpdate) (*models.Community, error) {
	c, err := s.store.Update(ctx, communityID, update)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "community not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update community")
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, communityID id.CommunityID) error {
	err := s.store.Delete(ctx, communityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "community not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete community")
	}
	return nil
}

// Join is idempotent: joining a community you already belong to returns the
// existing membership and reports created=false. Two concurrent joins
// converge on one record through the store's uniqueness constraint.
func (s *Service) Join(ctx context.Context, communityID id.CommunityID, userID id.UserID) (*models.Membership, bool, error) {
	community, err := s.Get(ctx, communityID)
	if err != nil {
		return nil, false, err
	}

	if existing, err := s.store.FindMember(ctx, communityID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "find membership")
	}

	m := &models.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        models.RoleMember,
		JoinedAt:    time.Now(),
	}
	err = s.store.AddMember(ctx, m)
	if errors.Is(err, sentinel.ErrConflict) {
		// Concurrent join won the race; return its record.
		existing, findErr := s.store.FindMember(ctx, communityID, userID)
		if findErr != nil {
			return nil, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "find membership after conflict")
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "add membership")
	}

	s.notifyJoin(ctx, community, userID)
	return m, true, nil
}

func (s *Service) Leave(ctx context.Context, communityID id.CommunityID, userID id.UserID) error {
	err := s.store.RemoveMember(ctx, communityID, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "membership not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove membership")
	}
	return nil
}

func (s *Service) Members(ctx context.Context, communityID id.CommunityID) ([]*models.Membership, error) {
	if _, err := s.Get(ctx, communityID); err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, communityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list members")
	}
	return members, nil
}

// notifyJoin tells the community owner about a new member. Best effort:
// a failed notification never fails the join.
func (s *Service) notifyJoin(ctx context.Context, community *models.Community, joiner id.UserID) {
	if community.CreatedBy == joiner {
		return
	}
	err := s.notifier.Push(ctx, community.CreatedBy, "community.joined",
		"A new member joined "+community.Name)
	if err != nil {
		s.logger.WarnContext(ctx, "join notification failed",
			"community_id", community.ID.String(),
			"error", err.Error(),
		)
	}
}
