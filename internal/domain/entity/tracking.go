package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tracking entrada del registro de auditoría (solo inserción).
type Tracking struct {
	ID          uuid.UUID
	Username    string
	Action      string
	DateCreated time.Time
	IP          string
}
