package dialect

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Dialect names for the supported SQL databases.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// DebugDriver is a driver that logs all driver operations.
type DebugDriver struct {
	Driver                // underlying driver
	log    zerolog.Logger // log function
}

// Debug gets a driver and a zerolog logger, and returns a new debugged-driver
// that prints all outgoing operations at debug level.
func Debug(d Driver, logger zerolog.Logger) Driver {
	return &DebugDriver{d, logger}
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.event(err).
		Str("op", "exec").
		Str("query", query).
		Interface("args", args).
		Dur("took", time.Since(start)).
		Msg("driver.Exec")
	return err
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.event(err).
		Str("op", "query").
		Str("query", query).
		Interface("args", args).
		Dur("took", time.Since(start)).
		Msg("driver.Query")
	return err
}

// Tx wraps the underlying transaction with logging.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.log.Debug().Str("op", "tx").Msg("driver.Tx started")
	return &DebugTx{tx, d.log}, nil
}

func (d *DebugDriver) event(err error) *zerolog.Event {
	ev := d.log.Debug()
	if err != nil {
		ev = d.log.Error().Err(err)
	}
	return ev
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx                 // underlying transaction
	log zerolog.Logger // log function
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Tx.Exec(ctx, query, args, v)
	ev := d.log.Debug()
	if err != nil {
		ev = d.log.Error().Err(err)
	}
	ev.Str("op", "exec").Str("query", query).Interface("args", args).
		Dur("took", time.Since(start)).Msg("tx.Exec")
	return err
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Tx.Query(ctx, query, args, v)
	ev := d.log.Debug()
	if err != nil {
		ev = d.log.Error().Err(err)
	}
	ev.Str("op", "query").Str("query", query).Interface("args", args).
		Dur("took", time.Since(start)).Msg("tx.Query")
	return err
}

// Commit logs the commit and calls the underlying transaction Commit method.
func (d *DebugTx) Commit() error {
	err := d.Tx.Commit()
	d.log.Debug().Str("op", "tx").Err(err).Msg("tx.Commit")
	return err
}

// Rollback logs the rollback and calls the underlying transaction Rollback method.
func (d *DebugTx) Rollback() error {
	err := d.Tx.Rollback()
	d.log.Debug().Str("op", "tx").Err(err).Msg("tx.Rollback")
	return err
}
