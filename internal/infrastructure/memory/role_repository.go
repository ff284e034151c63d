package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

var roleTable = table[entity.Role]{
	name: "roles",
	coll: func(d *dataset) map[uuid.UUID]entity.Role { return d.roles },
	id:   func(r *entity.Role) uuid.UUID { return r.ID },
	fields: func(r *entity.Role) map[string]any {
		return map[string]any{
			"id": r.ID, "name": r.Name, "description": r.Description, "deleted": r.Deleted, "created_at": r.CreatedAt,
		}
	},
	less: func(a, b *entity.Role) bool { return strings.Compare(a.Name, b.Name) < 0 },
	check: func(d *dataset, r *entity.Role) error {
		for id, other := range d.roles {
			if id != r.ID && other.Name == r.Name {
				return domain.ErrDuplicate
			}
		}
		return nil
	},
	// user_roles.role_id no tiene cascada: el borrado falla como una violación de FK.
	onDelete: func(d *dataset, id uuid.UUID) error {
		for k := range d.userRoles {
			if k.roleID == id {
				return domain.ErrRoleInUse
			}
		}
		return nil
	},
}

// RoleRepo implementación en memoria de RoleRepository.
type RoleRepo struct {
	crudRepo[entity.Role]
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.first(ctx, repository.Where("name", repository.OpEq, name))
}

func (r *RoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, repository.Where("name", repository.OpEq, name))
}

func (r *RoleRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Role, error) {
	var list []*entity.Role
	r.u.read(func(d *dataset) {
		for k := range d.userRoles {
			if k.userID != userID {
				continue
			}
			if role, ok := d.roles[k.roleID]; ok && !role.Deleted {
				list = append(list, &role)
			}
		}
	})
	slices.SortFunc(list, func(a, b *entity.Role) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}
