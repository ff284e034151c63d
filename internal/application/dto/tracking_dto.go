package dto

import "time"

// CreateTrackingRequest entrada del registro de auditoría. Sin username se usa el del token.
type CreateTrackingRequest struct {
	Username string `json:"username" validate:"omitempty,max=30"`
	Action   string `json:"action" validate:"required,max=255"`
}

// TrackingResponse salida de una entrada de auditoría.
type TrackingResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	DateCreated time.Time `json:"date_created"`
	IP          string    `json:"ip"`
}
