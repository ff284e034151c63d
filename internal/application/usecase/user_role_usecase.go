package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
)

// UserRoleUseCase asignaciones usuario ↔ rol, con el conductor opcional asociado.
type UserRoleUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
}

// NewUserRoleUseCase construye el caso de uso.
func NewUserRoleUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *UserRoleUseCase {
	return &UserRoleUseCase{uows: uows, log: log.Component("user_role")}
}

// ListByUser asignaciones del usuario con nombre de rol y de conductor.
// ErrUserNotFound si el usuario no existe.
func (uc *UserRoleUseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.UserRoleResponse, error) {
	uow := uc.uows.New()
	u, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	list, err := uow.UserRoles().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserRoleResponse, 0, len(list))
	for _, ur := range list {
		resp, err := uc.describe(ctx, uow, ur)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return items, nil
}

// Assign asigna el rol. ErrUserNotFound / ErrRoleNotFound si alguno no existe;
// ErrConflict si el usuario ya lo tiene.
func (uc *UserRoleUseCase) Assign(ctx context.Context, userID uuid.UUID, in dto.AssignRoleRequest) (*dto.UserRoleResponse, error) {
	roleID, err := uuid.Parse(in.RoleID)
	if err != nil {
		return nil, fmt.Errorf("%w: role_id", domain.ErrInvalidInput)
	}
	shipperID, err := parseOptionalID(in.ShipperID)
	if err != nil {
		return nil, err
	}
	uow := uc.uows.New()
	if err := uc.checkRefs(ctx, uow, userID, roleID, shipperID); err != nil {
		return nil, err
	}
	ur := &entity.UserRole{UserID: userID, RoleID: roleID, ShipperID: shipperID, Description: in.Description}
	ok, err := uow.UserRoles().Assign(ctx, ur)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	uc.log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("rol asignado")
	return uc.describe(ctx, uow, ur)
}

// Remove quita el rol al usuario. ErrNotFound si no lo tenía.
func (uc *UserRoleUseCase) Remove(ctx context.Context, userID, roleID uuid.UUID) error {
	ok, err := uc.uows.New().UserRoles().RemoveAssignment(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("rol retirado")
	return nil
}

// SetShipper cambia el conductor y/o la descripción de una asignación existente.
func (uc *UserRoleUseCase) SetShipper(ctx context.Context, userID, roleID uuid.UUID, in dto.UpdateUserRoleRequest) (*dto.UserRoleResponse, error) {
	shipperID, err := parseOptionalID(in.ShipperID)
	if err != nil {
		return nil, err
	}
	uow := uc.uows.New()
	ur, err := uow.UserRoles().Get(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if ur == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkRefs(ctx, uow, userID, roleID, shipperID); err != nil {
		return nil, err
	}
	ur.ShipperID = shipperID
	if in.Description != nil {
		ur.Description = *in.Description
	}
	if err := uow.UserRoles().Update(ctx, ur); err != nil {
		return nil, err
	}
	return uc.describe(ctx, uow, ur)
}

func (uc *UserRoleUseCase) checkRefs(ctx context.Context, uow repository.UnitOfWork, userID, roleID uuid.UUID, shipperID *uuid.UUID) error {
	u, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	r, err := uow.Roles().GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r == nil || r.Deleted {
		return domain.ErrRoleNotFound
	}
	if shipperID != nil {
		s, err := uow.Shippers().GetByID(ctx, *shipperID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: conductor %s no existe", domain.ErrInvalidInput, *shipperID)
		}
	}
	return nil
}

func (uc *UserRoleUseCase) describe(ctx context.Context, uow repository.UnitOfWork, ur *entity.UserRole) (*dto.UserRoleResponse, error) {
	resp := &dto.UserRoleResponse{
		UserID:      ur.UserID.String(),
		RoleID:      ur.RoleID.String(),
		ShipperID:   idString(ur.ShipperID),
		Description: ur.Description,
	}
	r, err := uow.Roles().GetByID(ctx, ur.RoleID)
	if err != nil {
		return nil, err
	}
	if r != nil {
		resp.RoleName = r.Name
	}
	if ur.ShipperID != nil {
		s, err := uow.Shippers().GetByID(ctx, *ur.ShipperID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			resp.ShipperName = s.Name
		}
	}
	return resp, nil
}
