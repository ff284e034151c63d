package repository

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Repository[entity.Customer]
	SearchByName(ctx context.Context, name string) ([]*entity.Customer, error)
}
