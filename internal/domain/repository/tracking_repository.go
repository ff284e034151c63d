package repository

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// TrackingRepository puerto del registro de auditoría.
type TrackingRepository interface {
	Append(ctx context.Context, t *entity.Tracking) error
	ListByUsername(ctx context.Context, username string) ([]*entity.Tracking, error)
}
