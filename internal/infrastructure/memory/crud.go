package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var now = time.Now

// table describe una colección: cómo leerla del dataset, sus columnas para filtros
// y las restricciones que el esquema SQL impone.
type table[T any] struct {
	name   string
	coll   func(d *dataset) map[uuid.UUID]T
	id     func(e *T) uuid.UUID
	fields func(e *T) map[string]any
	less   func(a, b *T) bool
	// check valida unicidad y referencias antes de insertar o actualizar.
	check func(d *dataset, e *T) error
	// onDelete aplica cascadas o rechaza el borrado.
	onDelete func(d *dataset, id uuid.UUID) error
}

type crudRepo[T any] struct {
	u *UnitOfWork
	t table[T]
}

func newCrudRepo[T any](u *UnitOfWork, t table[T]) crudRepo[T] {
	return crudRepo[T]{u: u, t: t}
}

// GetAll lista todos los registros en el orden por defecto.
func (r crudRepo[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.Find(ctx, repository.Filter{})
}

// GetByID obtiene por llave; nil, nil si no existe.
func (r crudRepo[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	var found *T
	r.u.read(func(d *dataset) {
		if e, ok := r.t.coll(d)[id]; ok {
			found = &e
		}
	})
	return found, nil
}

// Find filtra, ordena y pagina.
func (r crudRepo[T]) Find(_ context.Context, f repository.Filter) ([]*T, error) {
	var (
		list []*T
		err  error
	)
	r.u.read(func(d *dataset) {
		list, err = r.match(d, f)
	})
	if err != nil {
		return nil, err
	}
	if err := r.sort(list, f); err != nil {
		return nil, err
	}
	return page(list, f.Limit, f.Offset), nil
}

// Add inserta; ErrDuplicate si la llave o una columna única ya existe. La fila se
// copia al entrar porque el diario de la transacción puede reaplicarla al confirmar.
func (r crudRepo[T]) Add(_ context.Context, e *T) error {
	row := *e
	e = &row
	return r.u.write(func(d *dataset) error {
		id := r.t.id(e)
		if _, ok := r.t.coll(d)[id]; ok {
			return domain.ErrDuplicate
		}
		if r.t.check != nil {
			if err := r.t.check(d, e); err != nil {
				return err
			}
		}
		r.t.coll(d)[id] = *e
		return nil
	})
}

// Update sobrescribe; ErrNotFound si no existe.
func (r crudRepo[T]) Update(_ context.Context, e *T) error {
	row := *e
	e = &row
	return r.u.write(func(d *dataset) error {
		id := r.t.id(e)
		if _, ok := r.t.coll(d)[id]; !ok {
			return domain.ErrNotFound
		}
		if r.t.check != nil {
			if err := r.t.check(d, e); err != nil {
				return err
			}
		}
		r.t.coll(d)[id] = *e
		return nil
	})
}

// Remove elimina; ErrNotFound si no existe.
func (r crudRepo[T]) Remove(_ context.Context, id uuid.UUID) error {
	return r.u.write(func(d *dataset) error {
		if _, ok := r.t.coll(d)[id]; !ok {
			return domain.ErrNotFound
		}
		if r.t.onDelete != nil {
			if err := r.t.onDelete(d, id); err != nil {
				return err
			}
		}
		delete(r.t.coll(d), id)
		return nil
	})
}

func (r crudRepo[T]) exists(ctx context.Context, f repository.Filter) (bool, error) {
	list, err := r.Find(ctx, f.Page(1, 0))
	return len(list) > 0, err
}

func (r crudRepo[T]) first(ctx context.Context, f repository.Filter) (*T, error) {
	list, err := r.Find(ctx, f.Page(1, 0))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r crudRepo[T]) match(d *dataset, f repository.Filter) ([]*T, error) {
	var list []*T
	for _, e := range r.t.coll(d) {
		ok, err := matches(r.t.fields(&e), f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.t.name, err)
		}
		if ok {
			list = append(list, &e)
		}
	}
	return list, nil
}

func (r crudRepo[T]) sort(list []*T, f repository.Filter) error {
	if f.OrderBy == "" {
		slices.SortStableFunc(list, func(a, b *T) int {
			switch {
			case r.t.less(a, b):
				return -1
			case r.t.less(b, a):
				return 1
			}
			return 0
		})
		return nil
	}
	if len(list) > 0 {
		if _, ok := r.t.fields(list[0])[f.OrderBy]; !ok {
			return fmt.Errorf("%w: columna de orden %q", domain.ErrInvalidInput, f.OrderBy)
		}
	}
	slices.SortStableFunc(list, func(a, b *T) int {
		c, _ := compare(r.t.fields(a)[f.OrderBy], r.t.fields(b)[f.OrderBy])
		if f.Desc {
			return -c
		}
		return c
	})
	return nil
}

func page[T any](list []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
