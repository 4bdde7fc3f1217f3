// Package sentinel holds the storage facts stores report to services.
// Services translate them into coded domain errors; input validation never
// uses them.
package sentinel

import "errors"

var (
	// ErrNotFound means the row does not exist or belongs to another owner.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint (email, slug) was violated.
	ErrConflict = errors.New("conflict")
)
