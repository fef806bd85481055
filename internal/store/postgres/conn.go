package postgres

import (
	"database/sql"

	"github.com/gocraft/dbr/v2"
	"github.com/gocraft/dbr/v2/dialect"
)

// newSession wraps an existing pool in a dbr session for the query-builder
// backed readers.
func newSession(db *sql.DB) *dbr.Session {
	conn := &dbr.Connection{
		DB:            db,
		Dialect:       dialect.PostgreSQL,
		EventReceiver: &dbr.NullEventReceiver{},
	}
	return conn.NewSession(nil)
}
