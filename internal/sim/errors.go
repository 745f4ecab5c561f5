package sim

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration that cannot be integrated.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)
