// Package schema describes the queryable surface of an application's models:
// which tables exist, which columns they expose, and how dotted attribute
// paths such as "Game.played_on" resolve to concrete column references.
package schema

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/relstore/relstore"
)

// DefaultPrimaryKey is the primary-key column assumed when a model does not
// configure one explicitly.
const DefaultPrimaryKey = "slug"

// Model describes a single queryable entity: its table, column set, and
// primary-key columns. Models are immutable once registered.
type Model struct {
	name    string
	table   string
	columns []string
	colset  map[string]struct{}
	pk      []string
}

// ModelOption configures a model at construction time.
type ModelOption func(*Model)

// Table overrides the table name. By default the table name is derived from
// the model name ("GameScore" -> "game_scores").
func Table(name string) ModelOption {
	return func(m *Model) { m.table = name }
}

// Columns declares the model's columns in their selection order.
func Columns(columns ...string) ModelOption {
	return func(m *Model) { m.columns = append(m.columns, columns...) }
}

// PrimaryKey declares the primary-key columns, in order. Composite keys list
// multiple columns.
func PrimaryKey(columns ...string) ModelOption {
	return func(m *Model) { m.pk = append([]string(nil), columns...) }
}

// NewModel creates a model with the given name.
func NewModel(name string, opts ...ModelOption) *Model {
	m := &Model{name: name}
	for _, opt := range opts {
		opt(m)
	}
	if m.table == "" {
		m.table = inflect.Tableize(name)
	}
	if len(m.pk) == 0 {
		m.pk = []string{DefaultPrimaryKey}
	}
	m.colset = make(map[string]struct{}, len(m.columns))
	for _, c := range m.columns {
		m.colset[c] = struct{}{}
	}
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// TableName returns the table the model maps to.
func (m *Model) TableName() string { return m.table }

// ColumnNames returns the model's columns in selection order.
func (m *Model) ColumnNames() []string {
	return append([]string(nil), m.columns...)
}

// PrimaryKeyColumns returns the primary-key columns in order.
func (m *Model) PrimaryKeyColumns() []string {
	return append([]string(nil), m.pk...)
}

// HasColumn reports whether the model declares the given column.
func (m *Model) HasColumn(name string) bool {
	_, ok := m.colset[name]
	return ok
}

// Ref is a resolved attribute reference: a concrete, table-qualified column.
type Ref struct {
	Table  string
	Column string
}

// String returns the qualified column, e.g. "games.played_on".
func (r Ref) String() string {
	return r.Table + "." + r.Column
}

// Namespace is a registry of models against which dotted attribute paths are
// resolved. It plays the role of the "module" the mapping configuration names
// its attributes in. A namespace is populated once at startup and is
// read-only afterwards, so sharing it across goroutines is safe.
type Namespace struct {
	models map[string]*Model
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{models: make(map[string]*Model)}
}

// Register adds a model to the namespace. Registering two models with the
// same name is a configuration mistake and returns an error.
func (ns *Namespace) Register(models ...*Model) error {
	for _, m := range models {
		if _, ok := ns.models[m.name]; ok {
			return fmt.Errorf("schema: model %q already registered", m.name)
		}
		ns.models[m.name] = m
	}
	return nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level namespace construction at application startup.
func (ns *Namespace) MustRegister(models ...*Model) *Namespace {
	if err := ns.Register(models...); err != nil {
		panic(err)
	}
	return ns
}

// ResolveModel resolves a model name.
func (ns *Namespace) ResolveModel(name string) (*Model, error) {
	m, ok := ns.models[name]
	if !ok {
		return nil, relstore.NewResolveError(name, name)
	}
	return m, nil
}

// Resolve resolves a dotted "Model.column" path by sequential lookup: first
// the model, then the column. Resolution happens at configuration time only;
// an unresolvable segment fails immediately with a ResolveError.
func (ns *Namespace) Resolve(path string) (Ref, error) {
	model, column, ok := strings.Cut(path, ".")
	if !ok {
		return Ref{}, relstore.NewResolveError(path, path)
	}
	m, found := ns.models[model]
	if !found {
		return Ref{}, relstore.NewResolveError(path, model)
	}
	if !m.HasColumn(column) {
		return Ref{}, relstore.NewResolveError(path, column)
	}
	return Ref{Table: m.table, Column: column}, nil
}
