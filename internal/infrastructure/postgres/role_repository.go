package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

var roleTable = table[entity.Role]{
	name:    "roles",
	columns: []string{"id", "name", "description", "deleted", "created_at"},
	orderBy: "name",
	scan: func(s rowScanner) (*entity.Role, error) {
		var r entity.Role
		if err := s.Scan(&r.ID, &r.Name, &r.Description, &r.Deleted, &r.CreatedAt); err != nil {
			return nil, err
		}
		return &r, nil
	},
	values: func(r *entity.Role) []any {
		return []any{r.ID, r.Name, r.Description, r.Deleted, r.CreatedAt}
	},
	referenced: domain.ErrRoleInUse,
}

// RoleRepo implementación de RoleRepository.
type RoleRepo struct {
	crudRepo[entity.Role]
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{crudRepo: newCrudRepo(q, roleTable)}
}

// GetByName obtiene un rol por nombre exacto; nil, nil si no existe.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	list, err := r.Find(ctx, repository.Where("name", repository.OpEq, name).Page(1, 0))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// ExistsByName indica si ya existe un rol con ese nombre.
func (r *RoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, repository.Where("name", repository.OpEq, name))
}

// ListByUser roles no eliminados asignados al usuario.
func (r *RoleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.deleted, r.created_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 AND r.deleted = false
		ORDER BY r.name`
	return r.queryList(ctx, query, userID)
}
