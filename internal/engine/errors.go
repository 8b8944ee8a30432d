package engine

import "errors"

// Domain errors for loop setup and host wiring.
var (
	// ErrNoSurface indicates the host could not provide a drawing surface.
	ErrNoSurface = errors.New("engine: no drawing surface")

	// ErrStopped indicates an operation on a loop that has been torn down.
	ErrStopped = errors.New("engine: loop stopped")
)
