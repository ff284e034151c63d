package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// matches evalúa el filtro sobre las columnas de un registro con la misma semántica
// que la traducción SQL (NULL nunca cumple una comparación).
func matches(fields map[string]any, f repository.Filter) (bool, error) {
	if len(f.Conditions) == 0 {
		return true, nil
	}
	for _, c := range f.Conditions {
		v, ok := fields[c.Field]
		if !ok {
			return false, fmt.Errorf("%w: columna %q", domain.ErrInvalidInput, c.Field)
		}
		hit, err := evaluate(v, c)
		if err != nil {
			return false, err
		}
		if f.Any && hit {
			return true, nil
		}
		if !f.Any && !hit {
			return false, nil
		}
	}
	return !f.Any, nil
}

func evaluate(v any, c repository.Condition) (bool, error) {
	switch c.Op {
	case repository.OpEq:
		return equal(v, c.Value), nil
	case repository.OpContains:
		s, ok := normalize(v).(string)
		return ok && strings.Contains(s, fmt.Sprint(c.Value)), nil
	case repository.OpIContains:
		s, ok := normalize(v).(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(c.Value))), nil
	case repository.OpGte:
		n, ok := compare(v, c.Value)
		return ok && n >= 0, nil
	case repository.OpLt:
		n, ok := compare(v, c.Value)
		return ok && n < 0, nil
	default:
		return false, fmt.Errorf("%w: operador %q", domain.ErrInvalidInput, c.Op)
	}
}

// normalize reduce los valores a string, int64, bool, time.Time, decimal.Decimal o nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return int64(*x)
	case string, bool, time.Time, decimal.Decimal:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.String:
		return rv.String()
	}
	return v
}

func equal(a, b any) bool {
	na, nb := normalize(a), normalize(b)
	if na == nil || nb == nil {
		return false
	}
	if n, ok := compare(na, nb); ok {
		return n == 0
	}
	return na == nb
}

// compare devuelve -1, 0 o 1; false si los valores no son comparables o alguno es nil.
func compare(a, b any) (int, bool) {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case string:
		if y, ok := nb.(string); ok {
			return strings.Compare(x, y), true
		}
	case int64:
		if y, ok := nb.(int64); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	case time.Time:
		if y, ok := nb.(time.Time); ok {
			return x.Compare(y), true
		}
	case decimal.Decimal:
		if y, ok := nb.(decimal.Decimal); ok {
			return x.Cmp(y), true
		}
	case bool:
		if y, ok := nb.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}
