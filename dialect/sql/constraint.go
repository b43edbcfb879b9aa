package sql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Unique-violation codes per driver.
const (
	pqUniqueViolation     = "23505" // PostgreSQL error class 23 (integrity constraint)
	mysqlDupEntry         = 1062    // ER_DUP_ENTRY
	sqliteConstraintPK    = 1555    // SQLITE_CONSTRAINT_PRIMARYKEY
	sqliteConstraintUniq  = 2067    // SQLITE_CONSTRAINT_UNIQUE
	sqliteConstraintClass = 19      // SQLITE_CONSTRAINT
)

// IsUniqueViolation reports whether the given error originates from a
// unique or primary-key constraint violation in one of the supported
// drivers. The storage facade uses it to report a conflict when an insert
// races the preceding existence check.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return pqe.Code == pqUniqueViolation
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		return mye.Number == mysqlDupEntry
	}
	var sqe *sqlite.Error
	if errors.As(err, &sqe) {
		code := sqe.Code()
		return code == sqliteConstraintUniq || code == sqliteConstraintPK
	}
	return false
}

// IsConstraintViolation reports whether the given error is any kind of
// constraint violation (unique, foreign key, check, not null).
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return pqe.Code.Class() == "23"
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		switch mye.Number {
		case mysqlDupEntry, 1451, 1452, 1048, 3819:
			return true
		}
		return false
	}
	var sqe *sqlite.Error
	if errors.As(err, &sqe) {
		return sqe.Code()&0xff == sqliteConstraintClass
	}
	return false
}
