// Package sql provides SQL query building primitives and a database/sql-backed
// driver implementation.
//
// # Builder Types
//
// The package provides specialized builders for the statements the storage
// facade issues:
//
//   - Builder: low-level SQL string builder with identifier quoting
//   - Selector: SELECT query builder with joins, predicates, and pagination
//   - InsertBuilder: INSERT statement builder
//   - UpdateBuilder: UPDATE statement builder with SET and WHERE clauses
//   - DeleteBuilder: DELETE statement builder with WHERE predicates
//
// # Dialect Support
//
// SQL generation adapts to different database dialects:
//
//	import "github.com/relstore/relstore/dialect"
//
//	// PostgreSQL ($n placeholders, double-quoted identifiers)
//	sql.Dialect(dialect.Postgres).Select("id", "name").From(sql.Table("users"))
//
//	// MySQL ("?" placeholders, backtick-quoted identifiers)
//	sql.Dialect(dialect.MySQL).Select("id").From(sql.Table("users"))
//
// # Predicates
//
//	sql.EQ("users.name", "john")      // "users"."name" = ?
//	sql.GTE("users.age", 18)          // "users"."age" >= ?
//	sql.IsNull("users.deleted_at")    // "users"."deleted_at" IS NULL
//	sql.In("users.status", "a", "b")  // "users"."status" IN (?, ?)
//
// The comparison constructors satisfy the Op type, which lets mapping
// configuration name an operator declaratively:
//
//	filter.Expr{Path: "Game.played_on", Op: sql.GTE}
//
// # Joins and Pagination
//
//	sql.Select("games.id").
//	    From(sql.Table("games")).
//	    Join(sql.Table("players")).On("games.player_id", "players.id").
//	    OrderBy(sql.Desc("games.played_on")).
//	    Limit(10).Offset(20)
//
// Selectors are cloned by statement visitors before clauses are added, so a
// base selector threaded through a visitor chain is never modified in place.
package sql
