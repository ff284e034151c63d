package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/usecase"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/jwt"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// ActionLogin acción registrada en trackings tras un login correcto.
const ActionLogin = "login"

// dummyHash se compara cuando el usuario no existe para que el login tarde lo mismo.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("logistics-login"), bcrypt.DefaultCost)
	return h
})

// TokenIssuer firma tokens de acceso.
type TokenIssuer interface {
	Generate(id jwt.Identity) (string, time.Time, error)
}

// AuthUseCase casos de uso de autenticación: registro, login y bootstrap del admin.
type AuthUseCase struct {
	uows      repository.UnitOfWorkFactory
	tokens    TokenIssuer
	trackings *usecase.TrackingUseCase
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(uows repository.UnitOfWorkFactory, tokens TokenIssuer, trackings *usecase.TrackingUseCase, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{uows: uows, tokens: tokens, trackings: trackings, log: log.Component("auth")}
}

// Register crea un usuario y su rol en una sola transacción. Devuelve ErrDuplicate si el
// username o el email ya existen. Sin role_id se asigna el rol "user", que se crea si falta.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	roleID, err := optionalID(in.RoleID)
	if err != nil {
		return nil, err
	}
	shipperID, err := optionalID(in.ShipperID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Address:      in.Address,
		Phone:        in.Phone,
		CreatedAt:    time.Now(),
	}

	var role *entity.Role
	err = repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		if err := checkUnique(ctx, uow, user); err != nil {
			return err
		}
		if role, err = resolveRole(ctx, uow, roleID); err != nil {
			return err
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
		if err := uow.Users().Add(ctx, user); err != nil {
			return err
		}
		_, err := uow.UserRoles().Assign(ctx, &entity.UserRole{UserID: user.ID, RoleID: role.ID, ShipperID: shipperID})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID.String()).Str("role", role.Name).Msg("usuario registrado")
	return usecase.ToUserResponse(user, []string{role.Name}), nil
}

func checkUnique(ctx context.Context, uow repository.UnitOfWork, u *entity.User) error {
	taken, err := uow.Users().ExistsByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
	}
	taken, err = uow.Users().ExistsByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email %s", domain.ErrDuplicate, u.Email)
	}
	return nil
}

// resolveRole rol pedido o, sin id, el rol "user" (creado si la semilla falta).
func resolveRole(ctx context.Context, uow repository.UnitOfWork, id *uuid.UUID) (*entity.Role, error) {
	if id != nil {
		r, err := uow.Roles().GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if r == nil || r.Deleted {
			return nil, domain.ErrRoleNotFound
		}
		return r, nil
	}
	return ensureRole(ctx, uow, entity.RoleUser)
}

func ensureRole(ctx context.Context, uow repository.UnitOfWork, name string) (*entity.Role, error) {
	r, err := uow.Roles().GetByName(ctx, name)
	if err != nil || r != nil {
		return r, err
	}
	r = &entity.Role{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	if err := uow.Roles().Add(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Login verifica usuario (por username o email) y password, genera el JWT con los roles
// y registra la acción en trackings. Usuario inexistente o password incorrecto devuelven
// ErrUnauthorized; una cuenta eliminada devuelve ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip string) (*dto.LoginResponse, error) {
	uow := uc.uows.New()
	key := strings.TrimSpace(in.UsernameOrEmail)
	user, err := uow.Users().GetByUsername(ctx, key)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if user, err = uow.Users().GetByEmail(ctx, key); err != nil {
			return nil, err
		}
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Deleted {
		return nil, domain.ErrForbidden
	}
	roles, err := uow.Roles().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	token, exp, err := uc.tokens.Generate(jwt.Identity{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    names,
	})
	if err != nil {
		return nil, err
	}
	if uc.trackings != nil {
		if _, err := uc.trackings.Create(ctx, user.Username, ActionLogin, ip); err != nil {
			uc.log.Warn().Err(err).Str("username", user.Username).Msg("no se pudo registrar el login")
		}
	}
	uc.log.Info().Str("user_id", user.ID.String()).Msg("login correcto")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      *usecase.ToUserResponse(user, names),
	}, nil
}

// Me devuelve la identidad contenida en los claims del token.
func (uc *AuthUseCase) Me(claims *jwt.Claims) *dto.MeResponse {
	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	return &dto.MeResponse{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		FullName: claims.FullName,
		Roles:    roles,
	}
}

// EnsureAdmin crea la cuenta administradora inicial si todavía no existe.
// Devuelve false si ya existía.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	existing, err := uc.uows.New().Users().GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		CreatedAt:    time.Now(),
	}
	err = repository.InTx(ctx, uc.uows.New(), func(uow repository.UnitOfWork) error {
		role, err := ensureRole(ctx, uow, entity.RoleAdmin)
		if err != nil {
			return err
		}
		if err := uow.Users().Add(ctx, admin); err != nil {
			return err
		}
		_, err = uow.UserRoles().Assign(ctx, &entity.UserRole{UserID: admin.ID, RoleID: role.ID, Description: "bootstrap"})
		return err
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	uc.log.Info().Str("username", username).Msg("administrador inicial creado")
	return true, nil
}

func optionalID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%w: id inválido %q", domain.ErrInvalidInput, *s)
	}
	return &id, nil
}
