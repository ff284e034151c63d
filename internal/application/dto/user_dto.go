package dto

import "time"

// RegisterRequest entrada para registrar un usuario. Sin role_id se asigna el rol "user".
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email,max=100"`
	Password  string  `json:"password" validate:"required,min=6"`
	FullName  string  `json:"full_name" validate:"required,max=100"`
	Address   string  `json:"address" validate:"omitempty,max=200"`
	Phone     string  `json:"phone" validate:"omitempty,max=20"`
	RoleID    *string `json:"role_id" validate:"omitempty,uuid"`
	ShipperID *string `json:"shipper_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest datos editables del usuario; la contraseña solo cambia si se envía.
type UpdateUserRequest struct {
	FullName string  `json:"full_name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Address  *string `json:"address" validate:"omitempty,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	Roles     []string  `json:"roles"`
}

// LoginRequest entrada para login con nombre de usuario o email.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MeResponse identidad del token en curso.
type MeResponse struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}
