package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.CargoRepository = (*CargoRepo)(nil)

var cargoTable = table[entity.Cargo]{
	name: "cargos",
	columns: []string{
		"id", "code", "customer_person_in_charge", "customer_company_name", "employee_create",
		"customer_address", "service_type", "license_date", "exchange_date",
		"estimated_total_amount", "advance_money", "shipping_fee", "quantity_of_shipper",
		"created_at", "file_path_json", "shipper_id", "status",
	},
	orderBy: "created_at DESC",
	scan:    scanCargo,
	values: func(c *entity.Cargo) []any {
		return []any{
			c.ID, c.Code, c.CustomerPersonInCharge, c.CustomerCompanyName, c.EmployeeCreate,
			c.CustomerAddress, int16(c.ServiceType), c.LicenseDate, c.ExchangeDate,
			c.EstimatedTotalAmount, c.AdvanceMoney, c.ShippingFee, c.QuantityOfShipper,
			c.CreatedAt, c.FilePathJSON, c.ShipperID, int16(c.Status),
		}
	},
}

func scanCargo(s rowScanner) (*entity.Cargo, error) {
	var c entity.Cargo
	var serviceType, status int16
	err := s.Scan(
		&c.ID, &c.Code, &c.CustomerPersonInCharge, &c.CustomerCompanyName, &c.EmployeeCreate,
		&c.CustomerAddress, &serviceType, &c.LicenseDate, &c.ExchangeDate,
		&c.EstimatedTotalAmount, &c.AdvanceMoney, &c.ShippingFee, &c.QuantityOfShipper,
		&c.CreatedAt, &c.FilePathJSON, &c.ShipperID, &status,
	)
	if err != nil {
		return nil, err
	}
	c.ServiceType = entity.ServiceType(serviceType)
	c.Status = entity.CargoStatus(status)
	return &c, nil
}

// CargoRepo implementación de CargoRepository (usable con pool, tx o UnitOfWork).
type CargoRepo struct {
	crudRepo[entity.Cargo]
}

// NewCargoRepository construye el adaptador.
func NewCargoRepository(q Querier) *CargoRepo {
	return &CargoRepo{crudRepo: newCrudRepo(q, cargoTable)}
}

// GetByCode obtiene un lote por código exacto.
func (r *CargoRepo) GetByCode(ctx context.Context, code string) (*entity.Cargo, error) {
	list, err := r.Find(ctx, repository.Where("code", repository.OpEq, code).Page(1, 0))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// SearchByCode lotes cuyo código contiene el término.
func (r *CargoRepo) SearchByCode(ctx context.Context, code string) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("code", repository.OpContains, code))
}

// SearchByCompany lotes cuya empresa cliente contiene el término (sensible a mayúsculas).
func (r *CargoRepo) SearchByCompany(ctx context.Context, company string) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("customer_company_name", repository.OpContains, company))
}

// SearchByCodeOrCompany combina ambas búsquedas con OR.
func (r *CargoRepo) SearchByCodeOrCompany(ctx context.Context, term string) ([]*entity.Cargo, error) {
	f := repository.Where("code", repository.OpContains, term).
		And("customer_company_name", repository.OpContains, term)
	f.Any = true
	return r.Find(ctx, f)
}

// ListByShipper lotes asignados a un conductor.
func (r *CargoRepo) ListByShipper(ctx context.Context, shipperID uuid.UUID) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Where("shipper_id", repository.OpEq, shipperID))
}

// ListBetween lotes creados en [from, to), del más antiguo al más reciente.
func (r *CargoRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Cargo, error) {
	f := repository.Where("created_at", repository.OpGte, from).
		And("created_at", repository.OpLt, to).
		Order("created_at", false)
	return r.Find(ctx, f)
}

// ListPage página de lotes, más recientes primero.
func (r *CargoRepo) ListPage(ctx context.Context, limit, offset int) ([]*entity.Cargo, error) {
	return r.Find(ctx, repository.Filter{}.Page(limit, offset))
}

// Count total de lotes.
func (r *CargoRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM cargos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cargos: %w", err)
	}
	return n, nil
}

// UpdateFilePath cambia solo file_path_json, sin pisar columnas editadas por otra petición.
func (r *CargoRepo) UpdateFilePath(ctx context.Context, id uuid.UUID, path string) error {
	tag, err := r.q.Exec(ctx, `UPDATE cargos SET file_path_json = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("update cargo file path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Statistics cuenta los lotes creados en [from, to) y suma el monto estimado.
func (r *CargoRepo) Statistics(ctx context.Context, from, to time.Time) (entity.CargoStatistics, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(estimated_total_amount), 0)
		FROM cargos WHERE created_at >= $1 AND created_at < $2`
	var st entity.CargoStatistics
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&st.Count, &st.TotalRevenue); err != nil {
		return entity.CargoStatistics{}, fmt.Errorf("cargo statistics: %w", err)
	}
	return st, nil
}
