// Package service backs the moderation surface: report intake and
// resolution plus member administration. Deleting a member is a composite
// op; the account row is the primary write and session revocation is the
// derived one.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hacklabconnect/internal/admin/models"
	"hacklabconnect/internal/admin/store"
	usersmodels "hacklabconnect/internal/users/models"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
	"hacklabconnect/pkg/platform/sentinel"
)

// Directory is the slice of the user service the moderation surface needs.
type Directory interface {
	List(ctx context.Context) ([]*usersmodels.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

// SessionRevoker invalidates every live session a user holds.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID id.UserID) error
}

type Service struct {
	store    store.Store
	users    Directory
	sessions SessionRevoker
	logger   *slog.Logger
	now      func() time.Time
}

func New(st store.Store, users Directory, sessions SessionRevoker, logger *slog.Logger) *Service {
	return &Service{store: st, users: users, sessions: sessions, logger: logger, now: time.Now}
}

func (s *Service) CreateReport(ctx context.Context, reporter id.UserID, subject, reason string) (*models.Report, error) {
	r := &models.Report{
		ID:         id.ReportID(uuid.New()),
		ReporterID: reporter,
		Subject:    subject,
		Reason:     reason,
		Status:     models.StatusOpen,
		CreatedAt:  s.now(),
	}
	if err := s.store.Save(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save report")
	}
	return r, nil
}

func (s *Service) Reports(ctx context.Context) ([]*models.Report, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list reports")
	}
	return out, nil
}

// ResolveReport is idempotent: resolving an already-resolved report
// returns it unchanged, keeping the original resolver.
func (s *Service) ResolveReport(ctx context.Context, reportID id.ReportID, resolver id.UserID) (*models.Report, error) {
	r, err := s.store.FindByID(ctx, reportID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find report")
	}
	if r.Status == models.StatusResolved {
		return r, nil
	}

	resolvedAt := s.now()
	r.Status = models.StatusResolved
	r.ResolvedAt = &resolvedAt
	r.ResolvedBy = &resolver

	if err := s.store.Update(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update report")
	}
	return r, nil
}

func (s *Service) Users(ctx context.Context) ([]*usersmodels.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes the account and then revokes its sessions. A
// revocation failure after the account is gone is reported as a partial
// update; the orphaned sessions no longer resolve to a user anyway.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodePartialUpdate, "user deleted but sessions not revoked")
	}
	return nil
}
