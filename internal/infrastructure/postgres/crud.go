package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// table describe cómo mapear una entidad a una tabla. columns[0] es la llave primaria
// y values devuelve los valores en el mismo orden que columns.
type table[T any] struct {
	name    string
	columns []string
	orderBy string
	scan    func(s rowScanner) (*T, error)
	values  func(e *T) []any
	// referenced error al borrar una fila que otra tabla aún referencia.
	referenced error
}

func (t table[T]) key() string { return t.columns[0] }

func (t table[T]) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// crudRepo implementación genérica de repository.Repository[T] sobre PostgreSQL.
type crudRepo[T any] struct {
	q Querier
	t table[T]
}

func newCrudRepo[T any](q Querier, t table[T]) crudRepo[T] {
	return crudRepo[T]{q: q, t: t}
}

// GetAll lista todos los registros en el orden por defecto de la tabla.
func (r crudRepo[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.Find(ctx, repository.Filter{})
}

// GetByID obtiene un registro por llave primaria; nil, nil si no existe.
func (r crudRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	list, err := r.Find(ctx, repository.Where(r.t.key(), repository.OpEq, id).Page(1, 0))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Find lista los registros que cumplen el filtro.
func (r crudRepo[T]) Find(ctx context.Context, filter repository.Filter) ([]*T, error) {
	query, args, err := r.selectSQL(filter)
	if err != nil {
		return nil, err
	}
	return r.queryList(ctx, query, args...)
}

// Add inserta el registro.
func (r crudRepo[T]) Add(ctx context.Context, e *T) error {
	query, args, err := psql.Insert(r.t.name).Columns(r.t.columns...).Values(r.t.values(e)...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", r.t.name, err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return r.mapWriteErr("insert", err)
	}
	return nil
}

// Update sobrescribe todas las columnas no llave. ErrNotFound si no existe.
func (r crudRepo[T]) Update(ctx context.Context, e *T) error {
	values := r.t.values(e)
	set := make(map[string]any, len(r.t.columns)-1)
	for i, c := range r.t.columns[1:] {
		set[c] = values[i+1]
	}
	query, args, err := psql.Update(r.t.name).SetMap(set).Where(sq.Eq{r.t.key(): sqlValue(values[0])}).ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", r.t.name, err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return r.mapWriteErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Remove elimina por llave primaria. ErrNotFound si no existe.
func (r crudRepo[T]) Remove(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(r.t.name).Where(sq.Eq{r.t.key(): id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", r.t.name, err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return r.mapWriteErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r crudRepo[T]) selectSQL(filter repository.Filter) (string, []any, error) {
	b := psql.Select(r.t.columns...).From(r.t.name)
	where, err := r.where(filter)
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		b = b.Where(where)
	}
	order := r.t.orderBy
	if filter.OrderBy != "" {
		if !r.t.hasColumn(filter.OrderBy) {
			return "", nil, fmt.Errorf("%w: columna de orden %q", domain.ErrInvalidInput, filter.OrderBy)
		}
		order = filter.OrderBy
		if filter.Desc {
			order += " DESC"
		}
	}
	if order != "" {
		b = b.OrderBy(order)
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}
	return b.ToSql()
}

func (r crudRepo[T]) where(filter repository.Filter) (sq.Sqlizer, error) {
	if len(filter.Conditions) == 0 {
		return nil, nil
	}
	parts := make([]sq.Sqlizer, 0, len(filter.Conditions))
	for _, c := range filter.Conditions {
		if !r.t.hasColumn(c.Field) {
			return nil, fmt.Errorf("%w: columna %q", domain.ErrInvalidInput, c.Field)
		}
		p, err := conditionSQL(c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if filter.Any {
		return sq.Or(parts), nil
	}
	return sq.And(parts), nil
}

func conditionSQL(c repository.Condition) (sq.Sqlizer, error) {
	switch c.Op {
	case repository.OpEq:
		return sq.Eq{c.Field: sqlValue(c.Value)}, nil
	case repository.OpContains:
		return sq.Like{c.Field: likePattern(fmt.Sprint(c.Value))}, nil
	case repository.OpIContains:
		return sq.ILike{c.Field: likePattern(fmt.Sprint(c.Value))}, nil
	case repository.OpGte:
		return sq.GtOrEq{c.Field: sqlValue(c.Value)}, nil
	case repository.OpLt:
		return sq.Lt{c.Field: sqlValue(c.Value)}, nil
	default:
		return nil, fmt.Errorf("%w: operador %q", domain.ErrInvalidInput, c.Op)
	}
}

func (r crudRepo[T]) queryList(ctx context.Context, query string, args ...any) ([]*T, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.t.name, err)
	}
	defer rows.Close()
	var list []*T
	for rows.Next() {
		e, err := r.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.t.name, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r crudRepo[T]) queryOne(ctx context.Context, query string, args ...any) (*T, error) {
	e, err := r.t.scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.t.name, err)
	}
	return e, nil
}

func (r crudRepo[T]) exists(ctx context.Context, filter repository.Filter) (bool, error) {
	where, err := r.where(filter)
	if err != nil {
		return false, err
	}
	sub := sq.Select("1").From(r.t.name).Where(where)
	query, args, err := psql.Select().Column(sq.Expr("EXISTS (?)", sub)).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists %s: %w", r.t.name, err)
	}
	var ok bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.t.name, err)
	}
	return ok, nil
}

func (r crudRepo[T]) mapWriteErr(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		if op == "delete" && r.t.referenced != nil {
			return r.t.referenced
		}
		return fmt.Errorf("%w: referencia inexistente", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s %s: %w", op, r.t.name, err)
}

// sqlValue convierte uuid.UUID a texto: squirrel expande los arrays en sq.Eq como IN (...).
func sqlValue(v any) any {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String()
	case *uuid.UUID:
		if id == nil {
			return nil
		}
		return id.String()
	default:
		return v
	}
}
