package entity

import (
	"time"

	"github.com/google/uuid"
)

// Nombres de roles conocidos por la API.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleShipper = "shipper"
	RoleUser    = "user"
)

// Role rol asignable a usuarios.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	Deleted     bool
	CreatedAt   time.Time
}
