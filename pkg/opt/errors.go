package opt

import "fmt"

// ModelingError reports a malformed expression, variable, or constraint
// construction. It is always raised at build time, never deferred to render
// or solve time.
type ModelingError struct {
	Msg string
}

func (e *ModelingError) Error() string {
	return "modeling error: " + e.Msg
}

func modelingErrorf(format string, args ...any) *ModelingError {
	return &ModelingError{Msg: fmt.Sprintf(format, args...)}
}

// ShapeMismatchError reports a length mismatch between a component group and
// a paired coefficient container.
type ShapeMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: want %d elements, got %d", e.What, e.Want, e.Got)
}

// UnsupportedModelError reports that a model requires a capability the
// requested export or solver path does not have, for example abstract
// components on the matrix path. It is raised at render/export time.
type UnsupportedModelError struct {
	Reason string
}

func (e *UnsupportedModelError) Error() string {
	return "unsupported model: " + e.Reason
}

// SubmissionError wraps an opaque failure surfaced by the remote engine or
// its transport. The modeling layer attaches it to the triggering statement
// and does not retry or interpret it.
type SubmissionError struct {
	Stage string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed during %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
