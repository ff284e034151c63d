// Package memory implementa los puertos de persistencia en memoria. Se usa en tests
// y con DB_DRIVER=memory; respeta las mismas restricciones de unicidad y referencias
// que el esquema PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

type userRoleKey struct {
	userID uuid.UUID
	roleID uuid.UUID
}

// dataset estado completo de la base en memoria.
type dataset struct {
	cargos    map[uuid.UUID]entity.Cargo
	customers map[uuid.UUID]entity.Customer
	shippers  map[uuid.UUID]entity.Shipper
	users     map[uuid.UUID]entity.User
	roles     map[uuid.UUID]entity.Role
	userRoles map[userRoleKey]entity.UserRole
	trackings map[uuid.UUID]entity.Tracking
}

func newDataset() *dataset {
	return &dataset{
		cargos:    map[uuid.UUID]entity.Cargo{},
		customers: map[uuid.UUID]entity.Customer{},
		shippers:  map[uuid.UUID]entity.Shipper{},
		users:     map[uuid.UUID]entity.User{},
		roles:     map[uuid.UUID]entity.Role{},
		userRoles: map[userRoleKey]entity.UserRole{},
		trackings: map[uuid.UUID]entity.Tracking{},
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		cargos:    maps.Clone(d.cargos),
		customers: maps.Clone(d.customers),
		shippers:  maps.Clone(d.shippers),
		users:     maps.Clone(d.users),
		roles:     maps.Clone(d.roles),
		userRoles: maps.Clone(d.userRoles),
		trackings: maps.Clone(d.trackings),
	}
}

// Store base en memoria compartida por todas las unidades de trabajo.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// SeedRoles crea los roles dados si no existen (equivalente a la migración de seed).
func (s *Store) SeedRoles(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		found := false
		for _, r := range s.data.roles {
			if r.Name == name {
				found = true
				break
			}
		}
		if !found {
			id := uuid.New()
			s.data.roles[id] = entity.Role{ID: id, Name: name, CreatedAt: now()}
		}
	}
}

var (
	_ repository.UnitOfWork        = (*UnitOfWork)(nil)
	_ repository.UnitOfWorkFactory = (*Store)(nil)
)

// New implementa repository.UnitOfWorkFactory.
func (s *Store) New() repository.UnitOfWork {
	return &UnitOfWork{store: s}
}

// UnitOfWork unidad de trabajo en memoria. Begin toma una copia privada del estado
// y cada escritura se anota en un diario; Commit reaplica el diario sobre el estado
// vigente del Store, de modo que solo se pisan los registros que la transacción tocó.
type UnitOfWork struct {
	store *Store
	tx    *dataset
	// ops escrituras de la transacción en orden de aplicación.
	ops []func(d *dataset) error

	cargos    *CargoRepo
	customers *CustomerRepo
	shippers  *ShipperRepo
	users     *UserRepo
	roles     *RoleRepo
	userRoles *UserRoleRepo
	trackings *TrackingRepo
}

func (u *UnitOfWork) read(fn func(d *dataset)) {
	if u.tx != nil {
		fn(u.tx)
		return
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	fn(u.store.data)
}

// write aplica fn sobre una copia y solo la publica si fn no falla, de modo que
// una escritura rechazada no deja cambios parciales.
func (u *UnitOfWork) write(fn func(d *dataset) error) error {
	if u.tx != nil {
		work := u.tx.clone()
		if err := fn(work); err != nil {
			return err
		}
		u.tx = work
		u.ops = append(u.ops, fn)
		return nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	work := u.store.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	u.store.data = work
	return nil
}

func (u *UnitOfWork) Cargos() repository.CargoRepository {
	if u.cargos == nil {
		u.cargos = &CargoRepo{crudRepo: newCrudRepo(u, cargoTable)}
	}
	return u.cargos
}

func (u *UnitOfWork) Customers() repository.CustomerRepository {
	if u.customers == nil {
		u.customers = &CustomerRepo{crudRepo: newCrudRepo(u, customerTable)}
	}
	return u.customers
}

func (u *UnitOfWork) Shippers() repository.ShipperRepository {
	if u.shippers == nil {
		u.shippers = &ShipperRepo{crudRepo: newCrudRepo(u, shipperTable)}
	}
	return u.shippers
}

func (u *UnitOfWork) Users() repository.UserRepository {
	if u.users == nil {
		u.users = &UserRepo{crudRepo: newCrudRepo(u, userTable)}
	}
	return u.users
}

func (u *UnitOfWork) Roles() repository.RoleRepository {
	if u.roles == nil {
		u.roles = &RoleRepo{crudRepo: newCrudRepo(u, roleTable)}
	}
	return u.roles
}

func (u *UnitOfWork) UserRoles() repository.UserRoleRepository {
	if u.userRoles == nil {
		u.userRoles = &UserRoleRepo{u: u}
	}
	return u.userRoles
}

func (u *UnitOfWork) Trackings() repository.TrackingRepository {
	if u.trackings == nil {
		u.trackings = &TrackingRepo{rows: newCrudRepo(u, trackingTable)}
	}
	return u.trackings
}

// Begin abre una transacción sobre una copia del estado actual.
func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("%w: transacción ya abierta", domain.ErrConflict)
	}
	u.store.mu.RLock()
	u.tx = u.store.data.clone()
	u.store.mu.RUnlock()
	u.ops = nil
	return nil
}

// Commit reaplica las escrituras de la transacción sobre el estado actual con las
// mismas validaciones. Si alguna ya no es válida (otra unidad borró la fila o ocupó
// una columna única) no se publica nada y se devuelve ese error.
// ErrNoTransaction si no hay transacción abierta.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return domain.ErrNoTransaction
	}
	ops := u.ops
	u.tx, u.ops = nil, nil
	if len(ops) == 0 {
		return nil
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	work := u.store.data.clone()
	for _, fn := range ops {
		if err := fn(work); err != nil {
			return err
		}
	}
	u.store.data = work
	return nil
}

// Rollback descarta la copia; no-op si no hay transacción.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.tx, u.ops = nil, nil
	return nil
}

// SaveChanges confirma la transacción abierta; sin transacción es no-op.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.Commit(ctx)
}
