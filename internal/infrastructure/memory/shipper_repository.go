package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.ShipperRepository = (*ShipperRepo)(nil)

var shipperTable = table[entity.Shipper]{
	name: "shippers",
	coll: func(d *dataset) map[uuid.UUID]entity.Shipper { return d.shippers },
	id:   func(s *entity.Shipper) uuid.UUID { return s.ID },
	fields: func(s *entity.Shipper) map[string]any {
		return map[string]any{
			"id": s.ID, "name": s.Name, "vehicle_type": s.VehicleType, "phone": s.Phone, "address": s.Address,
		}
	},
	less: func(a, b *entity.Shipper) bool { return strings.Compare(a.Name, b.Name) < 0 },
	// ON DELETE SET NULL en cargos y user_roles.
	onDelete: func(d *dataset, id uuid.UUID) error {
		for k, c := range d.cargos {
			if c.ShipperID != nil && *c.ShipperID == id {
				c.ShipperID = nil
				d.cargos[k] = c
			}
		}
		for k, ur := range d.userRoles {
			if ur.ShipperID != nil && *ur.ShipperID == id {
				ur.ShipperID = nil
				d.userRoles[k] = ur
			}
		}
		return nil
	},
}

// ShipperRepo implementación en memoria de ShipperRepository.
type ShipperRepo struct {
	crudRepo[entity.Shipper]
}

func (r *ShipperRepo) SearchByName(ctx context.Context, name string) ([]*entity.Shipper, error) {
	return r.Find(ctx, repository.Where("name", repository.OpIContains, name))
}
