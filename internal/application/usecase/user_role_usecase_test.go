package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/memory"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seededStore() *memory.Store {
	store := memory.NewStore()
	store.SeedRoles(entity.RoleAdmin, entity.RoleStaff, entity.RoleShipper, entity.RoleUser)
	return store
}

func addUser(t *testing.T, store *memory.Store, username string, roles ...string) *entity.User {
	t.Helper()
	ctx := context.Background()
	uow := store.New()
	u := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     strings.ToUpper(username),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, uow.Users().Add(ctx, u))
	for _, name := range roles {
		r, err := uow.Roles().GetByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, r, name)
		ok, err := uow.UserRoles().Assign(ctx, &entity.UserRole{UserID: u.ID, RoleID: r.ID})
		require.NoError(t, err)
		require.True(t, ok)
	}
	return u
}

func seededRoleID(t *testing.T, store *memory.Store, name string) uuid.UUID {
	t.Helper()
	r, err := store.New().Roles().GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r.ID
}

func TestRole_CrearYRenombrar(t *testing.T) {
	uc := NewRoleUseCase(seededStore(), logger.Nop())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.RoleRequest{Name: " auditor ", Description: "solo lectura"})
	require.NoError(t, err)
	assert.Equal(t, "auditor", created.Name)

	_, err = uc.Create(ctx, dto.RoleRequest{Name: "auditor"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, uuid.MustParse(created.ID), dto.RoleRequest{Name: entity.RoleStaff})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "renombrar a un nombre ocupado")

	renamed, err := uc.Update(ctx, uuid.MustParse(created.ID), dto.RoleRequest{Name: "revisor"})
	require.NoError(t, err)
	assert.Equal(t, "revisor", renamed.Name)

	ok, err := uc.Exists(ctx, "revisor")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = uc.Exists(ctx, "auditor")
	require.NoError(t, err)
	assert.False(t, ok)

	byName, err := uc.GetByName(ctx, "revisor")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	missing, err := uc.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestRole_EliminarEnUso(t *testing.T) {
	store := seededStore()
	uc := NewRoleUseCase(store, logger.Nop())
	ctx := context.Background()
	u := addUser(t, store, "ana", entity.RoleStaff)
	staff := seededRoleID(t, store, entity.RoleStaff)

	assert.ErrorIs(t, uc.Delete(ctx, staff), domain.ErrRoleInUse)
	assert.ErrorIs(t, uc.Delete(ctx, uuid.New()), domain.ErrNotFound)

	require.NoError(t, NewUserRoleUseCase(store, logger.Nop()).Remove(ctx, u.ID, staff))
	require.NoError(t, uc.Delete(ctx, staff))
	got, err := uc.GetByID(ctx, staff)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// assignAfterCheck asigna el rol justo después de la verificación de uso, dentro de
// la misma unidad, para reproducir una asignación concurrente.
type assignAfterCheck struct {
	store  *memory.Store
	userID uuid.UUID
}

func (f assignAfterCheck) New() repository.UnitOfWork {
	return racyUoW{UnitOfWork: f.store.New(), store: f.store, userID: f.userID}
}

type racyUoW struct {
	repository.UnitOfWork
	store  *memory.Store
	userID uuid.UUID
}

func (u racyUoW) UserRoles() repository.UserRoleRepository {
	return racyUserRoles{UserRoleRepository: u.UnitOfWork.UserRoles(), store: u.store, userID: u.userID}
}

type racyUserRoles struct {
	repository.UserRoleRepository
	store  *memory.Store
	userID uuid.UUID
}

func (r racyUserRoles) ExistsByRole(ctx context.Context, roleID uuid.UUID) (bool, error) {
	inUse, err := r.UserRoleRepository.ExistsByRole(ctx, roleID)
	if err != nil || inUse {
		return inUse, err
	}
	_, err = r.store.New().UserRoles().Assign(ctx, &entity.UserRole{UserID: r.userID, RoleID: roleID})
	return false, err
}

func TestRole_EliminarConAsignacionConcurrente(t *testing.T) {
	store := seededStore()
	ctx := context.Background()
	u := addUser(t, store, "hoa")
	staff := seededRoleID(t, store, entity.RoleStaff)

	uc := NewRoleUseCase(assignAfterCheck{store: store, userID: u.ID}, logger.Nop())
	assert.ErrorIs(t, uc.Delete(ctx, staff), domain.ErrRoleInUse)

	got, err := NewRoleUseCase(store, logger.Nop()).GetByID(ctx, staff)
	require.NoError(t, err)
	assert.NotNil(t, got, "el rol sigue existiendo")
}

func TestRole_LogIncluyeComponente(t *testing.T) {
	var buf bytes.Buffer
	uc := NewRoleUseCase(seededStore(), logger.FromZerolog(zerolog.New(&buf)))

	_, err := uc.Create(context.Background(), dto.RoleRequest{Name: "auditor"})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "role", entry["component"])
	assert.Equal(t, "auditor", entry["role"])
}

func TestUserRole_AsignarConConductor(t *testing.T) {
	store := seededStore()
	uc := NewUserRoleUseCase(store, logger.Nop())
	ctx := context.Background()
	u := addUser(t, store, "bao")
	shipper := &entity.Shipper{ID: uuid.New(), Name: "Trần Văn B"}
	require.NoError(t, store.New().Shippers().Add(ctx, shipper))
	sid := shipper.ID.String()
	rid := seededRoleID(t, store, entity.RoleShipper)

	out, err := uc.Assign(ctx, u.ID, dto.AssignRoleRequest{RoleID: rid.String(), ShipperID: &sid})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleShipper, out.RoleName)
	assert.Equal(t, "Trần Văn B", out.ShipperName)

	_, err = uc.Assign(ctx, u.ID, dto.AssignRoleRequest{RoleID: rid.String()})
	assert.ErrorIs(t, err, domain.ErrConflict, "ya asignado")

	_, err = uc.Assign(ctx, uuid.New(), dto.AssignRoleRequest{RoleID: rid.String()})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Assign(ctx, u.ID, dto.AssignRoleRequest{RoleID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	desc := "turno noche"
	updated, err := uc.SetShipper(ctx, u.ID, rid, dto.UpdateUserRoleRequest{Description: &desc})
	require.NoError(t, err)
	assert.Nil(t, updated.ShipperID, "sin shipper_id se desvincula")
	assert.Equal(t, "turno noche", updated.Description)

	list, err := uc.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, uc.Remove(ctx, u.ID, rid))
	assert.ErrorIs(t, uc.Remove(ctx, u.ID, rid), domain.ErrNotFound)
}

func TestUser_ListForRole(t *testing.T) {
	store := seededStore()
	uc := NewUserUseCase(store, logger.Nop())
	ctx := context.Background()
	addUser(t, store, "admin", entity.RoleAdmin)
	addUser(t, store, "staff", entity.RoleStaff)
	addUser(t, store, "chofer", entity.RoleShipper)

	all, err := uc.ListForRole(ctx, []string{entity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	shippers, err := uc.ListForRole(ctx, []string{entity.RoleStaff})
	require.NoError(t, err)
	require.Len(t, shippers, 1)
	assert.Equal(t, "chofer", shippers[0].Username)
	assert.Equal(t, []string{entity.RoleShipper}, shippers[0].Roles)

	none, err := uc.ListForRole(ctx, []string{entity.RoleUser})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestUser_ActualizarYEliminar(t *testing.T) {
	store := seededStore()
	uc := NewUserUseCase(store, logger.Nop())
	ctx := context.Background()
	u := addUser(t, store, "cuong", entity.RoleStaff)
	addUser(t, store, "dung")

	_, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{FullName: "C", Email: "dung@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	pw := "nueva-clave"
	out, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{FullName: "Cường", Email: "cuong2@example.com", Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Cường", out.FullName)
	stored, err := store.New().Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(pw)))

	_, err = uc.Update(ctx, uuid.New(), dto.UpdateUserRequest{FullName: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, u.ID))
	got, err := uc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	inUse, err := store.New().UserRoles().ExistsByRole(ctx, seededRoleID(t, store, entity.RoleStaff))
	require.NoError(t, err)
	assert.False(t, inUse, "se borraron sus asignaciones")

	assert.ErrorIs(t, uc.Delete(ctx, u.ID), domain.ErrNotFound)
}

func TestTracking_CrearYListar(t *testing.T) {
	store := seededStore()
	uc := NewTrackingUseCase(store, logger.Nop())
	ctx := context.Background()
	u := addUser(t, store, "eva")

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }
	_, err := uc.Create(ctx, "eva", "primera", "10.0.0.1")
	require.NoError(t, err)
	uc.now = func() time.Time { return base.Add(time.Minute) }
	long := strings.Repeat("á", 300)
	second, err := uc.Create(ctx, "eva", long, "10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, []rune(second.Action), 255, "se recorta por runas")

	_, err = uc.Create(ctx, " ", "x", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "más reciente primero")

	_, err = uc.ListByUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCustomerYShipper_CRUD(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	customers := NewCustomerUseCase(store, logger.Nop())
	c, err := customers.Create(ctx, dto.CustomerRequest{Name: "Công ty Minh Long", Email: "ml@example.com"})
	require.NoError(t, err)
	found, err := customers.SearchByName(ctx, "MINH")
	require.NoError(t, err)
	assert.Len(t, found, 1, "búsqueda sin distinguir mayúsculas")
	_, err = customers.Update(ctx, uuid.New(), dto.CustomerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, customers.Delete(ctx, uuid.MustParse(c.ID)))
	assert.ErrorIs(t, customers.Delete(ctx, uuid.MustParse(c.ID)), domain.ErrNotFound)

	shippers := NewShipperUseCase(store, logger.Nop())
	large := uint8(entity.VehicleLargeTruck)
	s, err := shippers.Create(ctx, dto.ShipperRequest{Name: "Lê Văn C", VehicleType: &large})
	require.NoError(t, err)
	assert.Equal(t, uint8(entity.VehicleLargeTruck), s.VehicleType)
	name, err := shippers.GetName(ctx, uuid.MustParse(s.ID))
	require.NoError(t, err)
	assert.Equal(t, "Lê Văn C", name)
	name, err = shippers.GetName(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, name)
}
