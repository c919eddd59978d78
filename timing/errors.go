package timing

import "errors"

var (
	// ErrSessionRequired is returned when a Harness is created without a session
	ErrSessionRequired = errors.New("extraction session is required")
)
