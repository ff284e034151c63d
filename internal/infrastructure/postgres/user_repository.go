package postgres

import (
	"context"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = []string{
	"id", "username", "email", "password_hash", "full_name", "address", "phone", "deleted", "created_at",
}

func scanUser(s rowScanner) (*entity.User, error) {
	var u entity.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Address, &u.Phone,
		&u.Deleted, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var userTable = table[entity.User]{
	name:    "users",
	columns: userColumns,
	orderBy: "created_at DESC",
	scan:    scanUser,
	values: func(u *entity.User) []any {
		return []any{u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.Address, u.Phone,
			u.Deleted, u.CreatedAt}
	},
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	crudRepo[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{crudRepo: newCrudRepo(q, userTable)}
}

// GetByUsername obtiene un usuario por nombre de usuario; nil, nil si no existe.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, repository.Where("username", repository.OpEq, username))
}

// GetByEmail obtiene un usuario por email; nil, nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, repository.Where("email", repository.OpEq, email))
}

// ExistsByUsername indica si el nombre de usuario ya está tomado.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, repository.Where("username", repository.OpEq, username))
}

// ExistsByEmail indica si el email ya está registrado.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, repository.Where("email", repository.OpEq, email))
}

// ListActive usuarios no eliminados.
func (r *UserRepo) ListActive(ctx context.Context) ([]*entity.User, error) {
	return r.Find(ctx, repository.Where("deleted", repository.OpEq, false))
}

func (r *UserRepo) first(ctx context.Context, f repository.Filter) (*entity.User, error) {
	list, err := r.Find(ctx, f.Page(1, 0))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}
