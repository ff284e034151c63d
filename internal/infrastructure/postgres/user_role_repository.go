package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.UserRoleRepository = (*UserRoleRepo)(nil)

// UserRoleRepo implementación de UserRoleRepository (llave compuesta user_id + role_id).
type UserRoleRepo struct {
	q Querier
}

// NewUserRoleRepository construye el adaptador.
func NewUserRoleRepository(q Querier) *UserRoleRepo {
	return &UserRoleRepo{q: q}
}

const userRoleSelect = `SELECT user_id, role_id, shipper_id, description FROM user_roles`

func scanUserRole(s rowScanner) (*entity.UserRole, error) {
	var ur entity.UserRole
	if err := s.Scan(&ur.UserID, &ur.RoleID, &ur.ShipperID, &ur.Description); err != nil {
		return nil, err
	}
	return &ur, nil
}

// ListByUser asignaciones del usuario.
func (r *UserRoleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserRole, error) {
	return r.list(ctx, userRoleSelect+` WHERE user_id = $1`, userID)
}

// ListByRole asignaciones del rol.
func (r *UserRoleRepo) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*entity.UserRole, error) {
	return r.list(ctx, userRoleSelect+` WHERE role_id = $1`, roleID)
}

// Get obtiene una asignación; nil, nil si no existe.
func (r *UserRoleRepo) Get(ctx context.Context, userID, roleID uuid.UUID) (*entity.UserRole, error) {
	ur, err := scanUserRole(r.q.QueryRow(ctx, userRoleSelect+` WHERE user_id = $1 AND role_id = $2`, userID, roleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user_role: %w", err)
	}
	return ur, nil
}

// Exists indica si el usuario tiene el rol.
func (r *UserRoleRepo) Exists(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role_id = $2)`, userID, roleID)
}

// ExistsByRole indica si el rol está asignado a algún usuario.
func (r *UserRoleRepo) ExistsByRole(ctx context.Context, roleID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE role_id = $1)`, roleID)
}

// Assign inserta la asignación; false si ya existía.
func (r *UserRoleRepo) Assign(ctx context.Context, ur *entity.UserRole) (bool, error) {
	query := `
		INSERT INTO user_roles (user_id, role_id, shipper_id, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, ur.UserID, ur.RoleID, ur.ShipperID, ur.Description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: usuario, rol o conductor inexistente", domain.ErrInvalidInput)
		}
		return false, fmt.Errorf("insert user_role: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update actualiza conductor y descripción de la asignación.
func (r *UserRoleRepo) Update(ctx context.Context, ur *entity.UserRole) error {
	query := `
		UPDATE user_roles SET shipper_id = $3, description = $4
		WHERE user_id = $1 AND role_id = $2`
	tag, err := r.q.Exec(ctx, query, ur.UserID, ur.RoleID, ur.ShipperID, ur.Description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: conductor inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update user_role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveAssignment elimina la asignación; false si no existía.
func (r *UserRoleRepo) RemoveAssignment(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("delete user_role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveByUser elimina todas las asignaciones del usuario.
func (r *UserRoleRepo) RemoveByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user_roles by user: %w", err)
	}
	return nil
}

// UsersByRole usuarios no eliminados que tienen el rol.
func (r *UserRoleRepo) UsersByRole(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.full_name, u.address, u.phone, u.deleted, u.created_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role_id = $1 AND u.deleted = false
		ORDER BY u.username`
	rows, err := r.q.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRoleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.UserRole, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user_roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserRole
	for rows.Next() {
		ur, err := scanUserRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user_role: %w", err)
		}
		list = append(list, ur)
	}
	return list, rows.Err()
}

func (r *UserRoleRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists user_role: %w", err)
	}
	return ok, nil
}
