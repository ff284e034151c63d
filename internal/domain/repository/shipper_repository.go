package repository

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// ShipperRepository puerto de persistencia para conductores.
type ShipperRepository interface {
	Repository[entity.Shipper]
	SearchByName(ctx context.Context, name string) ([]*entity.Shipper, error)
}
