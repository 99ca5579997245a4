package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call exceeds its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoFilterFunction is returned when a script does not define filter.
	ErrNoFilterFunction = errors.New("script does not define a filter function")
)
