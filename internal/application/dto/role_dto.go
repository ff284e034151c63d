package dto

import "time"

// RoleRequest entrada para crear o renombrar un rol.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignRoleRequest asigna un rol a un usuario (el usuario va en la ruta).
type AssignRoleRequest struct {
	RoleID      string  `json:"role_id" validate:"required,uuid"`
	ShipperID   *string `json:"shipper_id" validate:"omitempty,uuid"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

// UpdateUserRoleRequest cambia el conductor o la descripción de una asignación.
type UpdateUserRoleRequest struct {
	ShipperID   *string `json:"shipper_id" validate:"omitempty,uuid"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// UserRoleResponse salida de una asignación usuario ↔ rol.
type UserRoleResponse struct {
	UserID      string  `json:"user_id"`
	RoleID      string  `json:"role_id"`
	RoleName    string  `json:"role_name"`
	ShipperID   *string `json:"shipper_id"`
	ShipperName string  `json:"shipper_name,omitempty"`
	Description string  `json:"description"`
}
