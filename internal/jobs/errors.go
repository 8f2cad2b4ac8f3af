package jobs

import "errors"

var (
	// ErrInvalidBaseName indicates a base name failing validation.
	ErrInvalidBaseName = errors.New("invalid base name")
	// ErrNameConflict indicates the composed job name already exists.
	ErrNameConflict = errors.New("job name already exists")
	// ErrNotFound indicates no job matched the identifier.
	ErrNotFound = errors.New("job not found")
)
