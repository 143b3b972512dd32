package domain

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidInput marks malformed or missing required request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown resource or booking id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks a transition attempted on a non-pending booking.
	ErrInvalidState = errors.New("invalid state")
)
