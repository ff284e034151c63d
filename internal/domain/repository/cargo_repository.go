package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// CargoRepository puerto de persistencia para lotes de carga.
type CargoRepository interface {
	Repository[entity.Cargo]
	GetByCode(ctx context.Context, code string) (*entity.Cargo, error)
	SearchByCode(ctx context.Context, code string) ([]*entity.Cargo, error)
	SearchByCompany(ctx context.Context, company string) ([]*entity.Cargo, error)
	SearchByCodeOrCompany(ctx context.Context, term string) ([]*entity.Cargo, error)
	ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*entity.Cargo, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Cargo, error)
	ListPage(ctx context.Context, limit, offset int) ([]*entity.Cargo, error)
	Count(ctx context.Context) (int, error)
	// UpdateFilePath cambia solo la ruta del archivo JSON. ErrNotFound si no existe.
	UpdateFilePath(ctx context.Context, id uuid.UUID, path string) error
	// Statistics cuenta los lotes creados en [from, to) y suma su monto estimado.
	Statistics(ctx context.Context, from, to time.Time) (entity.CargoStatistics, error)
}
