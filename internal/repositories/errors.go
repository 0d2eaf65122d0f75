package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

var (
	// ErrUserNotFound is returned when no user row matches the lookup key
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEntry is returned when an insert loses a race against a
	// concurrent insert of the same unique key. Callers recover by re-fetching.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// isDuplicateEntry reports whether err is a MySQL unique constraint violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
