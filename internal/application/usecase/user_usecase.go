package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios ya registrados.
type UserUseCase struct {
	uows repository.UnitOfWorkFactory
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(uows repository.UnitOfWorkFactory, log *logger.Logger) *UserUseCase {
	return &UserUseCase{uows: uows, log: log.Component("user")}
}

// GetByID obtiene un usuario con sus roles; nil, nil si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	uow := uc.uows.New()
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return withRoles(ctx, uow, u)
}

// List usuarios activos con sus roles.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	uow := uc.uows.New()
	users, err := uow.Users().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return usersWithRoles(ctx, uow, users)
}

// ListForRole filtra según quién consulta: admin ve todos los usuarios activos,
// staff solo a los conductores y cualquier otro rol recibe una lista vacía.
func (uc *UserUseCase) ListForRole(ctx context.Context, callerRoles []string) ([]dto.UserResponse, error) {
	switch {
	case hasRole(callerRoles, entity.RoleAdmin):
		return uc.List(ctx)
	case hasRole(callerRoles, entity.RoleStaff):
		uow := uc.uows.New()
		role, err := uow.Roles().GetByName(ctx, entity.RoleShipper)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return []dto.UserResponse{}, nil
		}
		users, err := uow.UserRoles().UsersByRole(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		return usersWithRoles(ctx, uow, users)
	default:
		return []dto.UserResponse{}, nil
	}
}

// Update cambia nombre, email y opcionalmente la contraseña. ErrNotFound si no existe;
// ErrDuplicate si el email pertenece a otro usuario.
func (uc *UserUseCase) Update(ctx context.Context, id uuid.UUID, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	uow := uc.uows.New()
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	email := strings.TrimSpace(in.Email)
	if email != u.Email {
		other, err := uow.Users().GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, domain.ErrDuplicate
		}
	}
	u.FullName = in.FullName
	u.Email = email
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := uow.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", id.String()).Msg("usuario actualizado")
	return withRoles(ctx, uow, u)
}

// Delete elimina las asignaciones de roles y luego el usuario, en una transacción.
func (uc *UserUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		u, err := uow.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		if err := uow.UserRoles().RemoveByUser(ctx, id); err != nil {
			return err
		}
		return uow.Users().Remove(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id.String()).Msg("usuario eliminado")
	return nil
}

func hasRole(roles []string, want string) bool {
	return slices.ContainsFunc(roles, func(r string) bool { return strings.EqualFold(r, want) })
}

func withRoles(ctx context.Context, uow repository.UnitOfWork, u *entity.User) (*dto.UserResponse, error) {
	roles, err := uow.Roles().ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u, roleNames(roles)), nil
}

func usersWithRoles(ctx context.Context, uow repository.UnitOfWork, users []*entity.User) ([]dto.UserResponse, error) {
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp, err := withRoles(ctx, uow, u)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return items, nil
}

func roleNames(roles []*entity.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// ToUserResponse mapea la entidad a su DTO (sin password).
func ToUserResponse(u *entity.User, roles []string) *dto.UserResponse {
	return toUserResponse(u, roles)
}

func toUserResponse(u *entity.User, roles []string) *dto.UserResponse {
	if roles == nil {
		roles = []string{}
	}
	return &dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Address:   u.Address,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		Roles:     roles,
	}
}
