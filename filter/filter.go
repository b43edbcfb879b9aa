// Package filter maps request parameters to WHERE and ORDER BY clauses.
//
// Map produces comparison predicates, NullMap produces IS NULL / IS NOT NULL
// predicates, and OrderBy translates the reserved order_by parameter into
// sort expressions. All attribute paths are resolved against a schema
// namespace at construction time; a bad path never survives to request time.
package filter

import (
	"sort"
	"strings"

	"github.com/relstore/relstore"
	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Expr configures a single filter: the dotted column path the parameter maps
// to, and the comparison operator to apply. A nil Op means equality.
type Expr struct {
	Path string
	Op   sql.Op
}

// Map maps named parameters to comparison predicates:
//
//	filters, err := filter.NewMap(ns, map[string]filter.Expr{
//		"game_type":   {Path: "Game.type"},
//		"starting_at": {Path: "Game.played_on", Op: sql.GTE},
//		"ending_at":   {Path: "Game.played_on", Op: sql.LTE},
//	})
//
// At visit time, each configured key present in the parameter bag contributes
// exactly one predicate; the predicates are conjoined. Keys absent from the
// configuration are ignored.
type Map struct {
	filters map[string]func(v any) *sql.Predicate
	keys    []string
}

// NewMap resolves the configured paths against the namespace and returns the
// filter mapping. Resolution failures surface here, not at request time.
func NewMap(ns *schema.Namespace, filters map[string]Expr) (*Map, error) {
	m := &Map{filters: make(map[string]func(v any) *sql.Predicate, len(filters))}
	for param, expr := range filters {
		ref, err := ns.Resolve(expr.Path)
		if err != nil {
			return nil, err
		}
		op := expr.Op
		if op == nil {
			op = sql.EQ
		}
		col := ref.String()
		m.filters[param] = func(v any) *sql.Predicate { return op(col, v) }
		m.keys = append(m.keys, param)
	}
	sort.Strings(m.keys)
	return m, nil
}

// Visit applies the configured filters for every parameter present in the
// bag. The selector passes through unchanged when no configured key is
// present.
func (m *Map) Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error) {
	var preds []*sql.Predicate
	for _, key := range m.keys {
		if v, ok := params[key]; ok {
			preds = append(preds, m.filters[key](v))
		}
	}
	if len(preds) == 0 {
		return s, nil
	}
	return s.Clone().Where(sql.And(preds...)), nil
}

// OrderByParam is the reserved parameter key the OrderBy mapping consumes.
const OrderByParam = "order_by"

// OrderBy translates the order_by parameter into sort expressions. Its value
// is a comma-separated list of public names, each optionally prefixed with
// "-" for descending order:
//
//	order_by=-played_on,game_type
//
// Tokens are applied left to right as primary, secondary, and so on. A token
// not present in the configuration rejects the whole order_by value with an
// UnknownOrderByError; a partial ordering is never applied.
type OrderBy struct {
	attrs map[string]string
}

// NewOrderBy resolves the configured sort attributes and returns the
// mapping. Values containing a dot are resolved as column paths; plain
// values are used verbatim as labels (e.g. an aliased aggregate column).
func NewOrderBy(ns *schema.Namespace, attrs map[string]string) (*OrderBy, error) {
	o := &OrderBy{attrs: make(map[string]string, len(attrs))}
	for name, target := range attrs {
		if strings.Contains(target, ".") {
			ref, err := ns.Resolve(target)
			if err != nil {
				return nil, err
			}
			o.attrs[name] = ref.String()
		} else {
			o.attrs[name] = target
		}
	}
	return o, nil
}

// Visit applies the order_by parameter, if present.
func (o *OrderBy) Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error) {
	raw, ok := params[OrderByParam]
	if !ok {
		return s, nil
	}
	value, ok := raw.(string)
	if !ok {
		return nil, relstore.NewInvalidFilterError(OrderByParam, raw)
	}
	var exprs []sql.OrderExpr
	for _, token := range strings.Split(value, ",") {
		desc := strings.HasPrefix(token, "-")
		name := strings.TrimPrefix(token, "-")
		column, ok := o.attrs[name]
		if !ok {
			return nil, relstore.NewUnknownOrderByError(name)
		}
		if desc {
			exprs = append(exprs, sql.Desc(column))
		} else {
			exprs = append(exprs, sql.Asc(column))
		}
	}
	return s.Clone().OrderBy(exprs...), nil
}

// Default sentinel values recognized by NullMap.
const (
	NullSentinel    = "null"
	NotNullSentinel = "not-null"
)

// NullMap maps named parameters to IS NULL / IS NOT NULL predicates based on
// a pair of sentinel string values:
//
//	nulls, err := filter.NewNullMap(ns, map[string]string{
//		"deleted_at": "Game.deleted_at",
//	})
//
// A parameter value equal to the null sentinel emits IS NULL, the not-null
// sentinel emits IS NOT NULL, and anything else is rejected with an
// InvalidFilterError naming the key and the offending value.
type NullMap struct {
	filters map[string]string
	keys    []string
	null    string
	notNull string
}

// NullOption configures a NullMap.
type NullOption func(*NullMap)

// WithSentinels overrides the recognized sentinel pair.
func WithSentinels(null, notNull string) NullOption {
	return func(m *NullMap) {
		m.null = null
		m.notNull = notNull
	}
}

// NewNullMap resolves the configured paths and returns the null-filter
// mapping.
func NewNullMap(ns *schema.Namespace, filters map[string]string, opts ...NullOption) (*NullMap, error) {
	m := &NullMap{
		filters: make(map[string]string, len(filters)),
		null:    NullSentinel,
		notNull: NotNullSentinel,
	}
	for _, opt := range opts {
		opt(m)
	}
	for param, path := range filters {
		ref, err := ns.Resolve(path)
		if err != nil {
			return nil, err
		}
		m.filters[param] = ref.String()
		m.keys = append(m.keys, param)
	}
	sort.Strings(m.keys)
	return m, nil
}

// Visit applies the configured null checks for every parameter present in
// the bag.
func (m *NullMap) Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error) {
	var preds []*sql.Predicate
	for _, key := range m.keys {
		raw, ok := params[key]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return nil, relstore.NewInvalidFilterError(key, raw)
		}
		switch value {
		case m.null:
			preds = append(preds, sql.IsNull(m.filters[key]))
		case m.notNull:
			preds = append(preds, sql.NotNull(m.filters[key]))
		default:
			return nil, relstore.NewInvalidFilterError(key, value)
		}
	}
	if len(preds) == 0 {
		return s, nil
	}
	return s.Clone().Where(sql.And(preds...)), nil
}
