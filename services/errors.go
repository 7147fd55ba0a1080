package services

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrEventNotFound is returned by event lookups and edits that name an
// event id the store does not have.
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidSort is returned for an unknown video sort order
var ErrInvalidSort = errors.New("invalid sort order")

// IsConstraintViolation reports whether err came from SQLite rejecting a
// write because of a NOT NULL, UNIQUE, PRIMARY KEY or FOREIGN KEY constraint.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
