package generator

import (
	"errors"
	"fmt"
)

// ErrExhausted is matched by errors.Is for runs that used every attempt
// without the model producing any output.
var ErrExhausted = errors.New("no output produced")

// InvocationError records a failed model call. It never escapes Generate
// on its own; it is kept on the attempt's verdict and, if it was the last
// one, on the ExhaustionError.
type InvocationError struct {
	Attempt int
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.Attempt, invocationReason(e.Err))
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ExhaustionError is returned when all attempts finished without any
// non-empty output to fall back on.
type ExhaustionError struct {
	Attempts       int
	LastReason     string
	LastInvocation error // last *InvocationError, if any attempt failed to invoke
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("failed to generate listing after %d attempts: %s", e.Attempts, e.LastReason)
}

// Is reports whether target is ErrExhausted.
func (e *ExhaustionError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustionError) Unwrap() error {
	return e.LastInvocation
}

func invocationReason(err error) string {
	return "LLM error: " + err.Error()
}
