package engine

import (
	"fmt"
	"strings"
)

// NotFoundError reports a stage, task, or debater id that does not
// exist in the project.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ValidationError reports bad input: an unknown mode or status, a
// missing required argument, or an operation applied to the wrong
// mode. The record is left unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CycleError rejects a task graph that is not acyclic. Edges are
// "<node> -> <dependency>" descriptors from the resolver.
type CycleError struct {
	Edges []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Edges, ", "))
}

// StateError reports an operation whose preconditions are unmet, such
// as submitting a response before any round has started.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}
