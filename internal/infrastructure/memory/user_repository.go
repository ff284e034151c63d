package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userTable = table[entity.User]{
	name: "users",
	coll: func(d *dataset) map[uuid.UUID]entity.User { return d.users },
	id:   func(u *entity.User) uuid.UUID { return u.ID },
	fields: func(u *entity.User) map[string]any {
		return map[string]any{
			"id": u.ID, "username": u.Username, "email": u.Email, "password_hash": u.PasswordHash,
			"full_name": u.FullName, "address": u.Address, "phone": u.Phone,
			"deleted": u.Deleted, "created_at": u.CreatedAt,
		}
	},
	less: func(a, b *entity.User) bool { return a.CreatedAt.After(b.CreatedAt) },
	check: func(d *dataset, u *entity.User) error {
		for id, other := range d.users {
			if id != u.ID && (other.Username == u.Username || other.Email == u.Email) {
				return domain.ErrDuplicate
			}
		}
		return nil
	},
	// ON DELETE CASCADE en user_roles.
	onDelete: func(d *dataset, id uuid.UUID) error {
		for k := range d.userRoles {
			if k.userID == id {
				delete(d.userRoles, k)
			}
		}
		return nil
	},
}

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	crudRepo[entity.User]
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, repository.Where("username", repository.OpEq, username))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, repository.Where("email", repository.OpEq, email))
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, repository.Where("username", repository.OpEq, username))
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, repository.Where("email", repository.OpEq, email))
}

func (r *UserRepo) ListActive(ctx context.Context) ([]*entity.User, error) {
	return r.Find(ctx, repository.Where("deleted", repository.OpEq, false))
}

func usernameLess(a, b *entity.User) bool { return strings.Compare(a.Username, b.Username) < 0 }
