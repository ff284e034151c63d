package repository

import "context"

// UnitOfWork agrupa los repositorios de una petición detrás de un único límite transaccional.
// Los repositorios se construyen al primer uso y comparten el mismo manejador: fuera de
// una transacción operan sobre el pool; después de Begin todos ven la misma transacción.
type UnitOfWork interface {
	Cargos() CargoRepository
	Customers() CustomerRepository
	Shippers() ShipperRepository
	Users() UserRepository
	Roles() RoleRepository
	UserRoles() UserRoleRepository
	Trackings() TrackingRepository

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback descarta la transacción abierta. Es no-op si no hay ninguna.
	Rollback(ctx context.Context) error
	// SaveChanges confirma atómicamente todo lo escrito desde Begin. Sin transacción es no-op.
	SaveChanges(ctx context.Context) error
}

// UnitOfWorkFactory crea unidades de trabajo con alcance de petición.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// InTx ejecuta fn dentro de una transacción de uow: Begin, fn, SaveChanges o Rollback.
func InTx(ctx context.Context, uow UnitOfWork, fn func(uow UnitOfWork) error) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()
	if err := fn(uow); err != nil {
		return err
	}
	return uow.SaveChanges(ctx)
}
