// Package pagination applies LIMIT and OFFSET clauses from a page-descriptor
// request parameter.
package pagination

import (
	"fmt"
	"reflect"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/visitor"
)

// Page is the default page descriptor: how many items to return and the
// index of the first one.
type Page struct {
	PageSize  int
	FirstItem int
}

// Accessor extracts a named field from a page descriptor. The default
// accessor understands Page values, arbitrary structs (by exported field
// name), and map[string]any descriptors with integer values.
type Accessor func(page any, field string) (int, error)

// Map applies pagination from a caller-chosen page-descriptor parameter.
// When the parameter is absent the selector passes through unchanged;
// otherwise LIMIT is set to the page size and OFFSET to the first-item
// index, in that order.
type Map struct {
	param     string
	sizeField string
	itemField string
	access    Accessor
}

// Option configures a pagination mapping.
type Option func(*Map)

// WithSizeField overrides the page-size field name (default "PageSize").
func WithSizeField(name string) Option {
	return func(m *Map) { m.sizeField = name }
}

// WithFirstItemField overrides the first-item field name (default "FirstItem").
func WithFirstItemField(name string) Option {
	return func(m *Map) { m.itemField = name }
}

// WithAccessor overrides the field accessor.
func WithAccessor(a Accessor) Option {
	return func(m *Map) { m.access = a }
}

// NewMap returns a pagination mapping that reads its page descriptor from
// the given parameter key.
func NewMap(param string, opts ...Option) *Map {
	m := &Map{
		param:     param,
		sizeField: "PageSize",
		itemField: "FirstItem",
		access:    fieldAccess,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Visit applies pagination if the page-descriptor parameter is present.
func (m *Map) Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error) {
	page, ok := params[m.param]
	if !ok {
		return s, nil
	}
	size, err := m.access(page, m.sizeField)
	if err != nil {
		return nil, fmt.Errorf("pagination: %q: %w", m.param, err)
	}
	first, err := m.access(page, m.itemField)
	if err != nil {
		return nil, fmt.Errorf("pagination: %q: %w", m.param, err)
	}
	return s.Clone().Limit(size).Offset(first), nil
}

// fieldAccess is the default accessor: plain field access on structs and
// key lookup on maps.
func fieldAccess(page any, field string) (int, error) {
	if mp, ok := page.(map[string]any); ok {
		v, ok := mp[field]
		if !ok {
			return 0, fmt.Errorf("missing field %q", field)
		}
		return toInt(v)
	}
	rv := reflect.ValueOf(page)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return 0, fmt.Errorf("unsupported page descriptor type %T", page)
	}
	fv := rv.FieldByName(field)
	if !fv.IsValid() {
		return 0, fmt.Errorf("missing field %q", field)
	}
	return toInt(fv.Interface())
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("non-integer value %v (%T)", v, v)
	}
}
