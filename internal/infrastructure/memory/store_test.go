package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCargo(code, company string, created time.Time) *entity.Cargo {
	return &entity.Cargo{
		ID:                   uuid.New(),
		Code:                 code,
		CustomerCompanyName:  company,
		EstimatedTotalAmount: decimal.NewFromInt(1000),
		CreatedAt:            created,
		Status:               entity.CargoNew,
	}
}

func TestCrud_AddGetUpdateRemove(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()

	c := newCargo("CG1", "ACME", time.Now())
	require.NoError(t, uow.Cargos().Add(ctx, c))

	got, err := uow.Cargos().GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ACME", got.CustomerCompanyName)

	got.CustomerCompanyName = "Otra"
	require.NoError(t, uow.Cargos().Update(ctx, got))
	again, _ := uow.Cargos().GetByID(ctx, c.ID)
	assert.Equal(t, "Otra", again.CustomerCompanyName)

	require.NoError(t, uow.Cargos().Remove(ctx, c.ID))
	missing, err := uow.Cargos().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, uow.Cargos().Remove(ctx, c.ID), domain.ErrNotFound)
}

func TestCargo_CodigoDuplicado(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	require.NoError(t, uow.Cargos().Add(ctx, newCargo("CG1", "A", time.Now())))
	assert.ErrorIs(t, uow.Cargos().Add(ctx, newCargo("CG1", "B", time.Now())), domain.ErrDuplicate)
}

func TestCargo_ShipperInexistente(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	c := newCargo("CG1", "A", time.Now())
	id := uuid.New()
	c.ShipperID = &id
	assert.ErrorIs(t, uow.Cargos().Add(ctx, c), domain.ErrInvalidInput)
}

func TestCargo_Busquedas(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, uow.Cargos().Add(ctx, newCargo("CG001", "Viet Logistics", base)))
	require.NoError(t, uow.Cargos().Add(ctx, newCargo("CG002", "viet trans", base.Add(time.Hour))))
	require.NoError(t, uow.Cargos().Add(ctx, newCargo("XX003", "CG Corp", base.Add(2*time.Hour))))

	byCode, err := uow.Cargos().SearchByCode(ctx, "CG0")
	require.NoError(t, err)
	assert.Len(t, byCode, 2)

	// sensible a mayúsculas
	byCompany, err := uow.Cargos().SearchByCompany(ctx, "Viet")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "CG001", byCompany[0].Code)

	either, err := uow.Cargos().SearchByCodeOrCompany(ctx, "CG")
	require.NoError(t, err)
	assert.Len(t, either, 3)

	// orden por defecto: más recientes primero
	all, err := uow.Cargos().GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "XX003", all[0].Code)

	between, err := uow.Cargos().ListBetween(ctx, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "CG001", between[0].Code)

	st, err := uow.Cargos().Statistics(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
	assert.True(t, st.TotalRevenue.Equal(decimal.NewFromInt(3000)))

	paged, err := uow.Cargos().ListPage(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "CG002", paged[0].Code)
}

func TestFind_ColumnaDesconocida(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	require.NoError(t, uow.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "A"}))
	_, err := uow.Customers().Find(ctx, repository.Where("nope", repository.OpEq, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomer_SearchByName_InsensibleAMayusculas(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	require.NoError(t, uow.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "Công ty ABC"}))
	require.NoError(t, uow.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "XYZ"}))

	list, err := uow.Customers().SearchByName(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Công ty ABC", list[0].Name)
}

func TestUnitOfWork_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := store.New()

	err := repository.InTx(ctx, uow, func(tx repository.UnitOfWork) error {
		if err := tx.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "A"}); err != nil {
			return err
		}
		return errors.New("falla")
	})
	require.Error(t, err)

	list, err := store.New().Customers().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUnitOfWork_CommitPublicaYAislaHastaConfirmar(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := store.New()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "A"}))

	outside, _ := store.New().Customers().GetAll(ctx)
	assert.Empty(t, outside)

	require.NoError(t, uow.SaveChanges(ctx))
	require.NoError(t, uow.Rollback(ctx)) // no-op después de confirmar
	inside, _ := store.New().Customers().GetAll(ctx)
	assert.Len(t, inside, 1)

	assert.ErrorIs(t, uow.Commit(ctx), domain.ErrNoTransaction)
	assert.NoError(t, uow.SaveChanges(ctx))
}

func TestUnitOfWork_CommitsConcurrentesConservanAmbasFilas(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	a, b, c := store.New(), store.New(), store.New()

	require.NoError(t, a.Begin(ctx))
	require.NoError(t, b.Begin(ctx))
	require.NoError(t, a.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "A"}))
	require.NoError(t, b.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "B"}))
	require.NoError(t, a.Commit(ctx))
	require.NoError(t, b.Commit(ctx))

	require.NoError(t, c.Begin(ctx))
	require.NoError(t, store.New().Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "C"}))
	require.NoError(t, c.Commit(ctx))

	list, err := store.New().Customers().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUnitOfWork_CommitConservaEscriturasSinTransaccion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	cargo := newCargo("CG1", "A", time.Now())
	require.NoError(t, store.New().Cargos().Add(ctx, cargo))

	uow := store.New()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Customers().Add(ctx, &entity.Customer{ID: uuid.New(), Name: "A"}))
	// El worker de archivos escribe fuera de la transacción mientras sigue abierta.
	require.NoError(t, store.New().Cargos().UpdateFilePath(ctx, cargo.ID, "/data/CG1.json"))
	require.NoError(t, uow.Commit(ctx))

	got, err := store.New().Cargos().GetByID(ctx, cargo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/data/CG1.json", got.FilePathJSON)
}

func TestUnitOfWork_CommitRevalidaRestricciones(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	a, b := store.New(), store.New()

	require.NoError(t, a.Begin(ctx))
	require.NoError(t, b.Begin(ctx))
	require.NoError(t, a.Cargos().Add(ctx, newCargo("CG1", "A", time.Now())))
	require.NoError(t, b.Cargos().Add(ctx, newCargo("CG1", "B", time.Now())))
	require.NoError(t, a.Commit(ctx))
	assert.ErrorIs(t, b.Commit(ctx), domain.ErrDuplicate)

	list, err := store.New().Cargos().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].CustomerCompanyName)
}

func TestUnitOfWork_ElDiarioCopiaLaFila(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := store.New()
	require.NoError(t, uow.Begin(ctx))
	cust := &entity.Customer{ID: uuid.New(), Name: "Original"}
	require.NoError(t, uow.Customers().Add(ctx, cust))
	cust.Name = "Mutado"
	require.NoError(t, uow.Commit(ctx))

	got, err := store.New().Customers().GetByID(ctx, cust.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Original", got.Name)
}

func TestUserRoles_AsignacionYCascadas(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.SeedRoles(entity.RoleAdmin, entity.RoleShipper)
	uow := store.New()

	admin, err := uow.Roles().GetByName(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, admin)

	u := &entity.User{ID: uuid.New(), Username: "ana", Email: "ana@x.vn", CreatedAt: time.Now()}
	require.NoError(t, uow.Users().Add(ctx, u))

	ok, err := uow.UserRoles().Assign(ctx, &entity.UserRole{UserID: u.ID, RoleID: admin.ID})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = uow.UserRoles().Assign(ctx, &entity.UserRole{UserID: u.ID, RoleID: admin.ID})
	require.NoError(t, err)
	assert.False(t, ok)

	roles, err := uow.Roles().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, entity.RoleAdmin, roles[0].Name)

	// el rol asignado no se puede borrar
	assert.ErrorIs(t, uow.Roles().Remove(ctx, admin.ID), domain.ErrRoleInUse)

	users, err := uow.UserRoles().UsersByRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, uow.Users().Remove(ctx, u.ID))
	inUse, err := uow.UserRoles().ExistsByRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestShipperRemove_DesasignaCargos(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	s := &entity.Shipper{ID: uuid.New(), Name: "Tài xế"}
	require.NoError(t, uow.Shippers().Add(ctx, s))
	c := newCargo("CG1", "A", time.Now())
	c.ShipperID = &s.ID
	require.NoError(t, uow.Cargos().Add(ctx, c))

	byShipper, err := uow.Cargos().ListByShipper(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, byShipper, 1)

	require.NoError(t, uow.Shippers().Remove(ctx, s.ID))
	got, _ := uow.Cargos().GetByID(ctx, c.ID)
	assert.Nil(t, got.ShipperID)
}

func TestTracking_ListByUsernameMasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, uow.Trackings().Append(ctx, &entity.Tracking{
			ID: uuid.New(), Username: "ana", Action: "login", DateCreated: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, uow.Trackings().Append(ctx, &entity.Tracking{ID: uuid.New(), Username: "otro", DateCreated: base}))

	list, err := uow.Trackings().ListByUsername(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].DateCreated.After(list[1].DateCreated))
}
