package extract

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrModelClientRequired is returned when a Session is created without a client
	ErrModelClientRequired = errors.New("model client is required")
)
