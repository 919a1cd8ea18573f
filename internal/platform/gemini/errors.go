package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyDescription is returned when a drink description is empty.
	ErrEmptyDescription = errors.New("drink description cannot be empty")
)
