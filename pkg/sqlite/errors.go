package sqlite

import (
	"errors"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrOpen    = errors.New("sqlite: cannot open database")
	ErrMigrate = errors.New("sqlite: schema migration failed")
	ErrQuery   = errors.New("sqlite: query failed")
	ErrClosed  = errors.New("sqlite: database is closed")
)

// IsCantOpen reports whether err is SQLITE_CANTOPEN.
func IsCantOpen(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CANTOPEN
	}
	return false
}
