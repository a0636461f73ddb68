package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key already holds a row.
	ErrDuplicate = errors.New("duplicate")

	// ErrBusy is returned when SQLite could not obtain a lock in time.
	ErrBusy = errors.New("database busy")
)

// IsBusy reports whether err is a lock timeout, either ErrBusy or a raw
// SQLITE_BUSY / SQLITE_LOCKED from the driver.
func IsBusy(err error) bool {
	if errors.Is(err, ErrBusy) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
