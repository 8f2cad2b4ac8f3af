package media

import "errors"

var (
	// ErrNotFound indicates no row matched the given identifier.
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidTable indicates a table name outside the closed set.
	ErrInvalidTable = errors.New("invalid table")
	// ErrInvalidField indicates a field name outside its allow-list.
	ErrInvalidField = errors.New("invalid field")
)
