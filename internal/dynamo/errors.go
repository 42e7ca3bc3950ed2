package dynamo

import "errors"

var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// StepError wraps an integration failure with the time it happened.
type StepError struct {
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string { return e.Wrapped.Error() }

func (e *StepError) Unwrap() error { return e.Wrapped }
