package datastore

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert trips the unique index
	// on users.email.
	ErrDuplicateEmail = errors.New("email already registered")
)
