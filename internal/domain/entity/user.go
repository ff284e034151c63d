package entity

import (
	"time"

	"github.com/google/uuid"
)

// User representa una cuenta del sistema.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Address      string
	Phone        string
	Deleted      bool
	CreatedAt    time.Time
}
