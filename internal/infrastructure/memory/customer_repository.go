package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

var customerTable = table[entity.Customer]{
	name: "customers",
	coll: func(d *dataset) map[uuid.UUID]entity.Customer { return d.customers },
	id:   func(c *entity.Customer) uuid.UUID { return c.ID },
	fields: func(c *entity.Customer) map[string]any {
		return map[string]any{
			"id": c.ID, "name": c.Name, "email": c.Email, "phone": c.Phone,
			"address": c.Address, "person_in_charge": c.PersonInCharge,
		}
	},
	less: func(a, b *entity.Customer) bool { return strings.Compare(a.Name, b.Name) < 0 },
}

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	crudRepo[entity.Customer]
}

func (r *CustomerRepo) SearchByName(ctx context.Context, name string) ([]*entity.Customer, error) {
	return r.Find(ctx, repository.Where("name", repository.OpIContains, name))
}
