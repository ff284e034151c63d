package postgres

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

var customerTable = table[entity.Customer]{
	name:    "customers",
	columns: []string{"id", "name", "email", "phone", "address", "person_in_charge"},
	orderBy: "name",
	scan: func(s rowScanner) (*entity.Customer, error) {
		var c entity.Customer
		if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PersonInCharge); err != nil {
			return nil, err
		}
		return &c, nil
	},
	values: func(c *entity.Customer) []any {
		return []any{c.ID, c.Name, c.Email, c.Phone, c.Address, c.PersonInCharge}
	},
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	crudRepo[entity.Customer]
}

// NewCustomerRepository construye el adaptador. Pasar pool, tx o UnitOfWork (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{crudRepo: newCrudRepo(q, customerTable)}
}

// SearchByName clientes cuyo nombre contiene el término, sin distinguir mayúsculas.
func (r *CustomerRepo) SearchByName(ctx context.Context, name string) ([]*entity.Customer, error) {
	return r.Find(ctx, repository.Where("name", repository.OpIContains, name))
}
