package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
)

// RoleRepository puerto de persistencia para roles.
type RoleRepository interface {
	Repository[entity.Role]
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ListByUser roles no eliminados asignados al usuario.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Role, error)
}
