package postgres

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.ShipperRepository = (*ShipperRepo)(nil)

var shipperTable = table[entity.Shipper]{
	name:    "shippers",
	columns: []string{"id", "name", "vehicle_type", "phone", "address"},
	orderBy: "name",
	scan: func(s rowScanner) (*entity.Shipper, error) {
		var sh entity.Shipper
		var vehicle int16
		if err := s.Scan(&sh.ID, &sh.Name, &vehicle, &sh.Phone, &sh.Address); err != nil {
			return nil, err
		}
		sh.VehicleType = entity.VehicleType(vehicle)
		return &sh, nil
	},
	values: func(sh *entity.Shipper) []any {
		return []any{sh.ID, sh.Name, int16(sh.VehicleType), sh.Phone, sh.Address}
	},
}

// ShipperRepo implementación de ShipperRepository.
type ShipperRepo struct {
	crudRepo[entity.Shipper]
}

// NewShipperRepository construye el adaptador.
func NewShipperRepository(q Querier) *ShipperRepo {
	return &ShipperRepo{crudRepo: newCrudRepo(q, shipperTable)}
}

// SearchByName conductores cuyo nombre contiene el término, sin distinguir mayúsculas.
func (r *ShipperRepo) SearchByName(ctx context.Context, name string) ([]*entity.Shipper, error) {
	return r.Find(ctx, repository.Where("name", repository.OpIContains, name))
}
