package core

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrEmailTaken is returned by CreateUser when the email (lowercased)
	// already belongs to another record. The insert never overwrites.
	ErrEmailTaken = errors.New("store: email already registered")
)
