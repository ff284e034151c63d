package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

// RoleUseCase administración de roles.
type RoleUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *RoleUseCase {
	return &RoleUseCase{uows: uows, log: log.Component("role")}
}

// Create crea un rol. ErrDuplicate si el nombre ya existe.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	repo := uc.uows.New().Roles()
	name := strings.TrimSpace(in.Name)
	exists, err := repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}
	r := &entity.Role{ID: uuid.New(), Name: name, Description: in.Description, CreatedAt: time.Now()}
	if err := repo.Add(ctx, r); err != nil {
		return nil, err
	}
	uc.log.Info().Str("role", name).Msg("rol creado")
	return toRoleResponse(r), nil
}

// Update renombra o cambia la descripción. ErrNotFound si no existe; ErrDuplicate si
// el nuevo nombre pertenece a otro rol.
func (uc *RoleUseCase) Update(ctx context.Context, id uuid.UUID, in dto.RoleRequest) (*dto.RoleResponse, error) {
	repo := uc.uows.New().Roles()
	r, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name != r.Name {
		other, err := repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	r.Name = name
	r.Description = in.Description
	if err := repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return toRoleResponse(r), nil
}

// Delete elimina un rol. ErrNotFound si no existe; ErrRoleInUse si está asignado,
// también cuando la asignación aparece entre la verificación y el borrado.
func (uc *RoleUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	var name string
	err := repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		r, err := uow.Roles().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		name = r.Name
		inUse, err := uow.UserRoles().ExistsByRole(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.ErrRoleInUse
		}
		return uow.Roles().Remove(ctx, id)
	})
	if errors.Is(err, domain.ErrRoleInUse) {
		uc.log.Warn().Str("role", name).Msg("rol en uso, no se elimina")
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("role", name).Msg("rol eliminado")
	return nil
}

// GetByID nil, nil si no existe.
func (uc *RoleUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.RoleResponse, error) {
	r, err := uc.uows.New().Roles().GetByID(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}
	return toRoleResponse(r), nil
}

// GetByName nil, nil si no existe.
func (uc *RoleUseCase) GetByName(ctx context.Context, name string) (*dto.RoleResponse, error) {
	r, err := uc.uows.New().Roles().GetByName(ctx, strings.TrimSpace(name))
	if err != nil || r == nil {
		return nil, err
	}
	return toRoleResponse(r), nil
}

// List roles no eliminados.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.uows.New().Roles().Find(ctx, repository.Where("deleted", repository.OpEq, false))
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRoleResponse(r))
	}
	return items, nil
}

func (uc *RoleUseCase) Exists(ctx context.Context, name string) (bool, error) {
	return uc.uows.New().Roles().ExistsByName(ctx, strings.TrimSpace(name))
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	return &dto.RoleResponse{ID: r.ID.String(), Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}
