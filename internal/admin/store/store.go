// Package store persists moderation reports. Listings put open reports
// first, newest first within each status.
package store

import (
	"context"

	"hacklabconnect/internal/admin/models"
	id "hacklabconnect/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, r *models.Report) error
	FindByID(ctx context.Context, reportID id.ReportID) (*models.Report, error)
	List(ctx context.Context) ([]*models.Report, error)
	Update(ctx context.Context, r *models.Report) error
}
