// Package dialect provides the database driver abstraction used by relstore.
//
// It defines the interfaces that decouple query construction from query
// execution, allowing the same mapping configuration to run against
// PostgreSQL, MySQL, and SQLite.
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The Driver interface wraps execution:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Opening a database connection:
//
//	import (
//	    "github.com/relstore/relstore/dialect"
//	    "github.com/relstore/relstore/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// Wrap a driver with Debug to log every outgoing query through zerolog:
//
//	drv = dialect.Debug(drv, logger)
package dialect
