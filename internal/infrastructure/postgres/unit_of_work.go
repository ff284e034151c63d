package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var (
	_ repository.UnitOfWork        = (*UnitOfWork)(nil)
	_ repository.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
	_ Querier                      = (*UnitOfWork)(nil)
)

// UnitOfWork agrupa los repositorios de una petición. Implementa Querier: delega en la
// transacción abierta si la hay y en el pool si no, de modo que los repositorios
// construidos una sola vez siguen a Begin/Commit sin reconstruirse.
// No es seguro para uso concurrente; cada petición crea la suya.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	cargos    *CargoRepo
	customers *CustomerRepo
	shippers  *ShipperRepo
	users     *UserRepo
	roles     *RoleRepo
	userRoles *UserRoleRepo
	trackings *TrackingRepo
}

// NewUnitOfWork construye una unidad de trabajo sobre el pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) conn() Querier {
	if u.tx != nil {
		return u.tx
	}
	return u.pool
}

// Exec implementa Querier.
func (u *UnitOfWork) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return u.conn().Exec(ctx, sql, args...)
}

// Query implementa Querier.
func (u *UnitOfWork) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return u.conn().Query(ctx, sql, args...)
}

// QueryRow implementa Querier.
func (u *UnitOfWork) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return u.conn().QueryRow(ctx, sql, args...)
}

func (u *UnitOfWork) Cargos() repository.CargoRepository {
	if u.cargos == nil {
		u.cargos = NewCargoRepository(u)
	}
	return u.cargos
}

func (u *UnitOfWork) Customers() repository.CustomerRepository {
	if u.customers == nil {
		u.customers = NewCustomerRepository(u)
	}
	return u.customers
}

func (u *UnitOfWork) Shippers() repository.ShipperRepository {
	if u.shippers == nil {
		u.shippers = NewShipperRepository(u)
	}
	return u.shippers
}

func (u *UnitOfWork) Users() repository.UserRepository {
	if u.users == nil {
		u.users = NewUserRepository(u)
	}
	return u.users
}

func (u *UnitOfWork) Roles() repository.RoleRepository {
	if u.roles == nil {
		u.roles = NewRoleRepository(u)
	}
	return u.roles
}

func (u *UnitOfWork) UserRoles() repository.UserRoleRepository {
	if u.userRoles == nil {
		u.userRoles = NewUserRoleRepository(u)
	}
	return u.userRoles
}

func (u *UnitOfWork) Trackings() repository.TrackingRepository {
	if u.trackings == nil {
		u.trackings = NewTrackingRepository(u)
	}
	return u.trackings
}

// Begin abre una transacción. Error si ya hay una abierta.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("%w: transacción ya abierta", domain.ErrConflict)
	}
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

// Commit confirma la transacción abierta. ErrNoTransaction si no hay ninguna.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return domain.ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback descarta la transacción abierta; no-op si no hay ninguna.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// SaveChanges confirma lo escrito desde Begin. Sin transacción abierta las escrituras
// ya fueron aplicadas por el pool y no hay nada que confirmar.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.Commit(ctx)
}

// UnitOfWorkFactory crea una UnitOfWork por petición sobre un pool compartido.
type UnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

// NewUnitOfWorkFactory construye la fábrica.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: pool}
}

// New implementa repository.UnitOfWorkFactory.
func (f *UnitOfWorkFactory) New() repository.UnitOfWork {
	return NewUnitOfWork(f.pool)
}
