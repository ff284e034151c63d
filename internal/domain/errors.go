package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrRoleNotFound  = errors.New("rol no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrRoleInUse     = errors.New("el rol está asignado a uno o más usuarios")
	ErrNoTransaction = errors.New("no hay transacción activa")
)
