package entity

import "github.com/google/uuid"

// UserRole asignación usuario ↔ rol (clave compuesta user_id + role_id).
// ShipperID vincula la cuenta con un conductor cuando el rol es "shipper".
type UserRole struct {
	UserID      uuid.UUID
	RoleID      uuid.UUID
	ShipperID   *uuid.UUID
	Description string
}
