package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// UserRoleRepository puerto de persistencia para la relación usuario ↔ rol.
type UserRoleRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserRole, error)
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]*entity.UserRole, error)
	Get(ctx context.Context, userID, roleID uuid.UUID) (*entity.UserRole, error)
	Exists(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	ExistsByRole(ctx context.Context, roleID uuid.UUID) (bool, error)
	// Assign inserta la asignación; devuelve false si ya existía.
	Assign(ctx context.Context, ur *entity.UserRole) (bool, error)
	Update(ctx context.Context, ur *entity.UserRole) error
	// RemoveAssignment elimina la asignación; devuelve false si no existía.
	RemoveAssignment(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	RemoveByUser(ctx context.Context, userID uuid.UUID) error
	// UsersByRole usuarios no eliminados que tienen el rol.
	UsersByRole(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error)
}
