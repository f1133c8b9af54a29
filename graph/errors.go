package graph

import (
	"errors"
	"fmt"
)

// ErrMaxStepsExceeded indicates that a run reached the configured step limit
// without completing. For the small acyclic graphs this engine is built for
// it signals a miswired graph rather than a long workflow.
var ErrMaxStepsExceeded = errors.New("execution exceeded maximum steps limit")

// ValidationError reports a malformed graph definition detected by Build.
// It is fatal to process initialization: a graph that fails validation is
// never handed to an Engine.
type ValidationError struct {
	// Message describes the defect.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "graph validation: " + e.Message
}

// validationErrorf builds a ValidationError from a format string.
func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RoutingError reports a conditional routing outcome with no table entry.
// Against a Build-validated graph this cannot happen; if it does, it aborts
// the run that observed it.
type RoutingError struct {
	// NodeID is the source node whose condition produced the key.
	NodeID string

	// Key is the outcome that had no destination.
	Key RouteKey
}

// Error implements the error interface.
func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing: node %s produced undeclared outcome %q", e.NodeID, string(e.Key))
}

// NodeError reports a failure inside a node's function. It aborts only the
// run it occurred in.
type NodeError struct {
	// NodeID identifies the failed node.
	NodeID string

	// Message is the human-readable error description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	if e.NodeID != "" {
		return "node " + e.NodeID + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Cause
}
