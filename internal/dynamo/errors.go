package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrMissingCapability indicates the rendering capability is absent.
	ErrMissingCapability = errors.New("dynamo: rendering capability unavailable")

	// ErrNoAttachment indicates a surface could not attach to its output.
	ErrNoAttachment = errors.New("dynamo: render attachment point missing")

	// ErrDegenerate indicates a zero-length vector where a direction was needed.
	ErrDegenerate = errors.New("dynamo: degenerate vector (zero length)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrAlreadyStarted indicates Start was called on a running loop.
	ErrAlreadyStarted = errors.New("dynamo: frame loop already started")

	// ErrInvalidState indicates NaN or Inf in the agent state.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// FrameError wraps an error with frame context.
type FrameError struct {
	Frame   uint64
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
