package repository

import (
	"context"

	"github.com/google/uuid"
)

// Operator operador de comparación de una condición de filtro.
type Operator string

const (
	OpEq        Operator = "eq"
	OpContains  Operator = "contains"  // subcadena, sensible a mayúsculas
	OpIContains Operator = "icontains" // subcadena, insensible a mayúsculas
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
)

// Condition condición sobre una columna. Field es el nombre de columna en la base.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Filter predicado traducible tanto a SQL como a evaluación en memoria.
// Las condiciones se combinan con AND, o con OR si Any es true.
type Filter struct {
	Conditions []Condition
	Any        bool
	OrderBy    string
	Desc       bool
	Limit      int
	Offset     int
}

// Where construye un filtro con una sola condición.
func Where(field string, op Operator, value any) Filter {
	return Filter{Conditions: []Condition{{Field: field, Op: op, Value: value}}}
}

// And agrega una condición al filtro.
func (f Filter) And(field string, op Operator, value any) Filter {
	f.Conditions = append(f.Conditions, Condition{Field: field, Op: op, Value: value})
	return f
}

// Order define el orden del resultado.
func (f Filter) Order(field string, desc bool) Filter {
	f.OrderBy = field
	f.Desc = desc
	return f
}

// Page limita el resultado.
func (f Filter) Page(limit, offset int) Filter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// Repository puerto CRUD genérico por entidad.
// GetByID devuelve nil, nil cuando el registro no existe.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Find(ctx context.Context, filter Filter) ([]*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Remove(ctx context.Context, id uuid.UUID) error
}
