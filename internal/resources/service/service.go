// Package service owns the resource library rules. Submission is
// deliberately duplicate-tolerant: the same link shared twice is two
// records, because each share carries its own submitter and timestamp.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/resources/models"
	"hacklabconnect/internal/resources/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func New(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

type CreateInput struct {
	CommunityID id.CommunityID
	Title       string
	Category    string
	URL         string
	FileRef     string
}

func (s *Service) Create(ctx context.Context, creator id.UserID, in CreateInput) (*models.Resource, error) {
	r := &models.Resource{
		ID:          id.ResourceID(uuid.New()),
		CommunityID: in.CommunityID,
		Title:       in.Title,
		Category:    in.Category,
		URL:         in.URL,
		FileRef:     in.FileRef,
		CreatedBy:   creator,
		CreatedAt:   s.now(),
	}
	if err := s.store.Save(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save resource")
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	r, err := s.store.FindByID(ctx, resourceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "resource not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find resource")
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, resourceID id.ResourceID) error {
	err := s.store.Delete(ctx, resourceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "resource not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete resource")
	}
	return nil
}

func (s *Service) List(ctx context.Context, communityID *id.CommunityID) ([]*models.Resource, error) {
	out, err := s.store.List(ctx, communityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list resources")
	}
	return out, nil
}
