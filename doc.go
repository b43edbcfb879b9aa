// Package relstore maps string-keyed request parameters (filters, sort order,
// pagination, joins) onto composed query-builder calls, and wraps basic CRUD
// access to a relational store behind a uniform facade.
//
// An application declares once which request parameter maps to which column
// and operator, and that mapping is applied consistently to every query:
//
//	ns := schema.NewNamespace()
//	ns.Register(schema.NewModel("Game",
//		schema.Columns("id", "type", "played_on", "deleted_at"),
//		schema.PrimaryKey("id"),
//	))
//
//	filters, err := filter.NewMap(ns, map[string]filter.Expr{
//		"game_type":   {Path: "Game.type"},
//		"starting_at": {Path: "Game.played_on", Op: sql.GTE},
//	})
//
// Mapping objects implement a single capability, the statement visitor:
//
//	Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error)
//
// Visitors are composed in an explicit, caller-chosen order; each inspects
// only the parameter keys it is configured for and ignores the rest. The
// storage facade applies the visitor chain around list, count and get
// operations, and delegates execution to the dialect driver.
//
// Mapping configuration is immutable after construction and safe to share
// across concurrent requests. All configured attribute paths are resolved at
// construction time; a bad path fails immediately with a ResolveError rather
// than surfacing on first use of a rarely-hit parameter.
package relstore
