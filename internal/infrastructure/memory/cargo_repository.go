package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CargoRepository = (*CargoRepo)(nil)

var cargoTable = table[entity.Cargo]{
	name: "cargos",
	coll: func(d *dataset) map[uuid.UUID]entity.Cargo { return d.cargos },
	id:   func(c *entity.Cargo) uuid.UUID { return c.ID },
	fields: func(c *entity.Cargo) map[string]any {
		return map[string]any{
			"id":                        c.ID,
			"code":                      c.Code,
			"customer_person_in_charge": c.CustomerPersonInCharge,
			"customer_company_name":     c.CustomerCompanyName,
			"employee_create":           c.EmployeeCreate,
			"customer_address":          c.CustomerAddress,
			"service_type":              c.ServiceType,
			"license_date":              c.LicenseDate,
			"exchange_date":             c.ExchangeDate,
			"estimated_total_amount":    c.EstimatedTotalAmount,
			"advance_money":             c.AdvanceMoney,
			"shipping_fee":              c.ShippingFee,
			"quantity_of_shipper":       c.QuantityOfShipper,
			"created_at":                c.CreatedAt,
			"file_path_json":            c.FilePathJSON,
			"shipper_id":                c.ShipperID,
			"status":                    c.Status,
		}
	},
	less: func(a, b *entity.Cargo) bool { return a.CreatedAt.After(b.CreatedAt) },
	check: func(d *dataset, c *entity.Cargo) error {
		for id, other := range d.cargos {
			if id != c.ID && other.Code == c.Code {
				return domain.ErrDuplicate
			}
		}
		if c.ShipperID != nil {
			if _, ok := d.shippers[*c.ShipperID]; !ok {
				return fmt.Errorf("%w: referencia inexistente", domain.ErrInvalidInput)
			}
		}
		return nil
	},
}

// CargoRepo implementación en memoria de CargoRepository.
type CargoRepo struct {
	crudRepo[entity.Cargo]
}

func (r *CargoRepo) GetByCode(ctx context.Context, code string) (*entity.Cargo, error) {
	return r.first(ctx, repository.Where("code", repository.OpEq, code))
}

func (r *CargoRepo) SearchByCode(ctx context.Context, code string) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("code", repository.OpContains, code))
}

func (r *CargoRepo) SearchByCompany(ctx context.Context, company string) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("customer_company_name", repository.OpContains, company))
}

func (r *CargoRepo) SearchByCodeOrCompany(ctx context.Context, term string) ([]*entity.Cargo, error) {
	f := repository.Where("code", repository.OpContains, term).
		And("customer_company_name", repository.OpContains, term)
	f.Any = true
	return r.Find(ctx, f)
}

func (r *CargoRepo) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("shipper_id", repository.OpEq, shipperID))
}

func (r *CargoRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Cargo, error) {
	f := repository.Where("created_at", repository.OpGte, from).
		And("created_at", repository.OpLt, to).
		Order("created_at", false)
	return r.Find(ctx, f)
}

func (r *CargoRepo) ListPage(ctx context.Context, limit, offset int) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Filter{}.Page(limit, offset))
}

func (r *CargoRepo) Count(_ context.Context) (int, error) {
	var n int
	r.u.read(func(d *dataset) { n = len(d.cargos) })
	return n, nil
}

func (r *CargoRepo) UpdateFilePath(_ context.Context, id uuid.UUID, path string) error {
	return r.u.write(func(d *dataset) error {
		c, ok := d.cargos[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.FilePathJSON = path
		d.cargos[id] = c
		return nil
	})
}

func (r *CargoRepo) Statistics(ctx context.Context, from, to time.Time) (entity.CargoStatistics, error) {
	list, err := r.ListBetween(ctx, from, to)
	if err != nil {
		return entity.CargoStatistics{}, err
	}
	st := entity.CargoStatistics{Count: len(list), TotalRevenue: decimal.Zero}
	for _, c := range list {
		st.TotalRevenue = st.TotalRevenue.Add(c.EstimatedTotalAmount)
	}
	return st, nil
}
