// Package store provides step-history recording for workflow runs.
//
// A Store records the merged state after every node execution, giving an
// audit trail and a debugging surface for completed runs. It is not a
// checkpoint/resume mechanism: runs are never rehydrated from a store.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested run ID has no recorded steps.
var ErrNotFound = errors.New("not found")

// Store persists per-step run history.
//
// Implementations must be safe for concurrent use; one Store instance is
// shared by all runs of an Engine.
//
// Type parameter S is the state type to persist.
type Store[S any] interface {
	// SaveStep records the merged state after a node execution.
	// step is the 1-indexed sequence number within the run.
	SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error

	// LoadLatest returns the most recent recorded state of a run and its
	// step number. Returns ErrNotFound for an unknown run.
	LoadLatest(ctx context.Context, runID string) (state S, step int, err error)

	// ListSteps returns a run's full history in step order.
	// Returns ErrNotFound for an unknown run.
	ListSteps(ctx context.Context, runID string) ([]StepRecord[S], error)

	// Close releases any held resources. The Store must not be used after
	// Close returns.
	Close() error
}

// StepRecord is one entry in a run's recorded history.
type StepRecord[S any] struct {
	// Step is the 1-indexed sequence number within the run.
	Step int

	// NodeID identifies the node that produced this state.
	NodeID string

	// State is the merged workflow state after the step completed.
	State S
}
