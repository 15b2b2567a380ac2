package pool

import (
	"database/sql"
	"time"
)

// SetClock replaces the store clock for tests.
func SetClock(s *Store, now func() time.Time) {
	s.now = now
}

// DB exposes the connection pool for tests.
func DB(s *Store) *sql.DB {
	return s.db
}
