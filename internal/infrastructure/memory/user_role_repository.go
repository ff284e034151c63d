package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var _ repository.UserRoleRepository = (*UserRoleRepo)(nil)

// UserRoleRepo implementación en memoria de UserRoleRepository.
type UserRoleRepo struct {
	u *UnitOfWork
}

func (r *UserRoleRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.UserRole, error) {
	return r.list(func(k userRoleKey) bool { return k.userID == userID }), nil
}

func (r *UserRoleRepo) ListByRole(_ context.Context, roleID uuid.UUID) ([]*entity.UserRole, error) {
	return r.list(func(k userRoleKey) bool { return k.roleID == roleID }), nil
}

func (r *UserRoleRepo) Get(_ context.Context, userID, roleID uuid.UUID) (*entity.UserRole, error) {
	var found *entity.UserRole
	r.u.read(func(d *dataset) {
		if ur, ok := d.userRoles[userRoleKey{userID, roleID}]; ok {
			found = &ur
		}
	})
	return found, nil
}

func (r *UserRoleRepo) Exists(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	ur, err := r.Get(ctx, userID, roleID)
	return ur != nil, err
}

func (r *UserRoleRepo) ExistsByRole(ctx context.Context, roleID uuid.UUID) (bool, error) {
	list, err := r.ListByRole(ctx, roleID)
	return len(list) > 0, err
}

func (r *UserRoleRepo) Assign(_ context.Context, ur *entity.UserRole) (bool, error) {
	row := *ur
	ur = &row
	inserted := false
	err := r.u.write(func(d *dataset) error {
		key := userRoleKey{ur.UserID, ur.RoleID}
		if _, ok := d.userRoles[key]; ok {
			return nil
		}
		if err := checkUserRoleRefs(d, ur); err != nil {
			return err
		}
		d.userRoles[key] = *ur
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *UserRoleRepo) Update(_ context.Context, ur *entity.UserRole) error {
	row := *ur
	ur = &row
	return r.u.write(func(d *dataset) error {
		key := userRoleKey{ur.UserID, ur.RoleID}
		if _, ok := d.userRoles[key]; !ok {
			return domain.ErrNotFound
		}
		if err := checkUserRoleRefs(d, ur); err != nil {
			return err
		}
		d.userRoles[key] = *ur
		return nil
	})
}

func (r *UserRoleRepo) RemoveAssignment(_ context.Context, userID, roleID uuid.UUID) (bool, error) {
	removed := false
	err := r.u.write(func(d *dataset) error {
		key := userRoleKey{userID, roleID}
		if _, ok := d.userRoles[key]; ok {
			delete(d.userRoles, key)
			removed = true
		}
		return nil
	})
	return removed, err
}

func (r *UserRoleRepo) RemoveByUser(_ context.Context, userID uuid.UUID) error {
	return r.u.write(func(d *dataset) error {
		for k := range d.userRoles {
			if k.userID == userID {
				delete(d.userRoles, k)
			}
		}
		return nil
	})
}

func (r *UserRoleRepo) UsersByRole(_ context.Context, roleID uuid.UUID) ([]*entity.User, error) {
	var list []*entity.User
	r.u.read(func(d *dataset) {
		for k := range d.userRoles {
			if k.roleID != roleID {
				continue
			}
			if u, ok := d.users[k.userID]; ok && !u.Deleted {
				list = append(list, &u)
			}
		}
	})
	slices.SortFunc(list, func(a, b *entity.User) int {
		switch {
		case usernameLess(a, b):
			return -1
		case usernameLess(b, a):
			return 1
		}
		return 0
	})
	return list, nil
}

func (r *UserRoleRepo) list(keep func(k userRoleKey) bool) []*entity.UserRole {
	var list []*entity.UserRole
	r.u.read(func(d *dataset) {
		for k, ur := range d.userRoles {
			if keep(k) {
				list = append(list, &ur)
			}
		}
	})
	slices.SortFunc(list, func(a, b *entity.UserRole) int {
		if c := bytes.Compare(a.UserID[:], b.UserID[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.RoleID[:], b.RoleID[:])
	})
	return list
}

func checkUserRoleRefs(d *dataset, ur *entity.UserRole) error {
	if _, ok := d.users[ur.UserID]; !ok {
		return fmt.Errorf("%w: usuario, rol o conductor inexistente", domain.ErrInvalidInput)
	}
	if _, ok := d.roles[ur.RoleID]; !ok {
		return fmt.Errorf("%w: usuario, rol o conductor inexistente", domain.ErrInvalidInput)
	}
	if ur.ShipperID != nil {
		if _, ok := d.shippers[*ur.ShipperID]; !ok {
			return fmt.Errorf("%w: usuario, rol o conductor inexistente", domain.ErrInvalidInput)
		}
	}
	return nil
}
