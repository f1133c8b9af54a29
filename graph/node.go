package graph

import "context"

// Node is a named unit of work in the workflow graph.
// It reads the current state and returns a partial update to be merged.
//
// Nodes may block for arbitrary time (external I/O, simulated latency) and
// must honor ctx cancellation during any suspension.
//
// Type parameter S is the state type shared across the workflow.
type Node[S any] interface {
	// Run executes the node's logic against the current merged state.
	// The returned NodeResult carries the partial state update and any error.
	Run(ctx context.Context, state S) NodeResult[S]
}

// NodeResult is the output of a single node execution.
type NodeResult[S any] struct {
	// Delta is the partial state update produced by this node.
	// Only the fields the node owns should be set; the reducer merges
	// exactly those fields into the running state.
	Delta S

	// Err aborts the run when non-nil. No further nodes execute and no
	// step event is emitted for the failed node.
	Err error
}

// NodeFunc adapts a plain function to the Node interface.
//
// Example:
//
//	plan := graph.NodeFunc[State](func(ctx context.Context, s State) graph.NodeResult[State] {
//	    return graph.NodeResult[State]{Delta: State{PlanNeeded: "yes"}}
//	})
type NodeFunc[S any] func(ctx context.Context, state S) NodeResult[S]

// Run implements the Node interface for NodeFunc.
func (f NodeFunc[S]) Run(ctx context.Context, state S) NodeResult[S] {
	return f(ctx, state)
}

// Reducer merges a partial update into the previous state and returns the
// merged state. Merges are shallow and per-field: a field not set in the
// delta must keep its previous value. The reducer is called by the engine
// after every node execution, always from a single goroutine per run.
type Reducer[S any] func(prev, delta S) S

// Step describes one completed node execution within a run.
// Delta is the partial update as returned by the node, before merge.
type Step[S any] struct {
	// Step is the 1-indexed sequence number within the run.
	Step int

	// NodeID identifies the node that produced this step.
	NodeID string

	// Delta is the partial state update the node returned.
	Delta S
}

// StepFunc observes steps during Engine.RunWithSteps. It is invoked
// synchronously after each merge, in execution order; returning an error
// aborts the run.
type StepFunc[S any] func(ctx context.Context, step Step[S]) error
