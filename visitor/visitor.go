// Package visitor defines the statement-visitor capability: a single method
// that inspects a bag of named request parameters and returns a possibly
// extended selector. Mapping objects (filters, ordering, joins, pagination)
// all implement it, and are composed by the caller in an explicit order.
package visitor

import (
	"github.com/relstore/relstore/dialect/sql"
)

// Params is the flat, string-keyed parameter bag supplied per operation.
// Visitors read it and never retain it. Keys a visitor does not recognize
// are ignored, never an error: callers may pass parameters meant for other
// visitors in the same chain, or for future configuration.
type Params map[string]any

// StatementVisitor visits a selector and returns a possibly-modified copy.
// Implementations must not mutate the given selector in place; they clone it
// before adding clauses, or return it unchanged when none of their configured
// parameter keys are present.
type StatementVisitor interface {
	Visit(s *sql.Selector, params Params) (*sql.Selector, error)
}

// The VisitFunc type is an adapter to allow the use of ordinary functions as
// statement visitors.
type VisitFunc func(s *sql.Selector, params Params) (*sql.Selector, error)

// Visit calls f(s, params).
func (f VisitFunc) Visit(s *sql.Selector, params Params) (*sql.Selector, error) {
	return f(s, params)
}

// Apply threads the selector through the given visitors in order, stopping at
// the first error. Visitor order matters and is the caller's responsibility:
// a join visitor must be listed before filter visitors that reference the
// joined table.
func Apply(s *sql.Selector, params Params, visitors ...StatementVisitor) (*sql.Selector, error) {
	var err error
	for _, v := range visitors {
		if s, err = v.Visit(s, params); err != nil {
			return nil, err
		}
	}
	return s, nil
}
