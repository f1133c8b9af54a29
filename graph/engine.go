package graph

import (
	"context"
	"errors"
	"time"

	"github.com/dvalle/stategraph/graph/emit"
	"github.com/dvalle/stategraph/graph/store"
)

// Engine executes runs of a single immutable Graph.
//
// The Engine is the core runtime that:
//   - walks the graph from entry to terminal, one node at a time
//   - merges each partial update into the running state via the reducer
//   - surfaces each completed step to an optional observer, in order
//   - records steps via the store and emits observability events
//   - enforces MaxSteps and per-node timeouts
//   - honors context cancellation between and inside nodes
//
// One Engine serves unlimited concurrent runs: the graph is read-only and
// every run owns its own state.
//
// Type parameter S is the state type shared across the workflow.
type Engine[S any] struct {
	graph   *Graph[S]
	reducer Reducer[S]
	emitter emit.Emitter
	store   store.Store[S]
	metrics *Metrics
	opts    Options
}

// New creates an Engine for a built graph.
//
// The reducer merges partial updates deterministically; it is required.
// Collaborators (emitter, store, metrics) and limits are supplied via
// functional options.
//
// Example:
//
//	engine, err := graph.New(g, reducer,
//	    graph.WithEmitter[State](emit.NewLogEmitter(os.Stderr, false)),
//	    graph.WithMaxSteps[State](10),
//	)
func New[S any](g *Graph[S], reducer Reducer[S], opts ...Option[S]) (*Engine[S], error) {
	if g == nil {
		return nil, &ValidationError{Message: "graph is required"}
	}
	if reducer == nil {
		return nil, &ValidationError{Message: "reducer is required"}
	}

	e := &Engine[S]{
		graph:   g,
		reducer: reducer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph returns the immutable graph this engine executes.
func (e *Engine[S]) Graph() *Graph[S] {
	return e.graph
}

// Run executes one full run and returns the final merged state.
func (e *Engine[S]) Run(ctx context.Context, runID string, initial S) (S, error) {
	return e.RunWithSteps(ctx, runID, initial, nil)
}

// RunWithSteps executes one full run, invoking onStep synchronously after
// every merge with the (nodeID, delta) pair of the completed node.
//
// Sequencing guarantees:
//   - nodes execute strictly one at a time within a run
//   - routing is evaluated on the state as of the just-completed merge
//   - onStep observes steps in execution order, before the next node starts
//   - on node failure the run aborts: no further nodes, no step event for
//     the failed node
//
// onStep may be nil. If onStep returns an error the run aborts with it,
// which gives a consumer pushing into a bounded channel a way to stop the
// run when the consumer is gone.
func (e *Engine[S]) RunWithSteps(ctx context.Context, runID string, initial S, onStep StepFunc[S]) (S, error) {
	var zero S

	e.metrics.RunStarted()
	status := "error"
	defer func() {
		e.metrics.RunFinished(status)
	}()

	state := initial
	current := e.graph.Entry()

	for step := 1; ; step++ {
		if e.opts.MaxSteps > 0 && step > e.opts.MaxSteps {
			return zero, ErrMaxStepsExceeded
		}

		select {
		case <-ctx.Done():
			status = "canceled"
			return zero, ctx.Err()
		default:
		}

		node, ok := e.graph.node(current)
		if !ok {
			return zero, validationErrorf("node not found during execution: %s", current)
		}

		start := time.Now()
		result, timeoutErr := executeNodeWithTimeout(ctx, node, current, state, e.opts)
		if timeoutErr != nil {
			e.metrics.RecordStep(current, time.Since(start), "timeout")
			return zero, timeoutErr
		}
		if result.Err != nil {
			e.metrics.RecordStep(current, time.Since(start), "error")
			if errors.Is(result.Err, context.Canceled) {
				status = "canceled"
			}
			return zero, &NodeError{
				NodeID:  current,
				Message: result.Err.Error(),
				Cause:   result.Err,
			}
		}
		e.metrics.RecordStep(current, time.Since(start), "success")

		state = e.reducer(state, result.Delta)

		if e.store != nil {
			if err := e.store.SaveStep(ctx, runID, step, current, state); err != nil {
				return zero, &NodeError{
					NodeID:  current,
					Message: "save step: " + err.Error(),
					Cause:   err,
				}
			}
		}

		if e.emitter != nil {
			e.emitter.Emit(emit.Event{
				RunID:  runID,
				Step:   step,
				NodeID: current,
				Msg:    "node completed",
			})
		}

		if onStep != nil {
			if err := onStep(ctx, Step[S]{Step: step, NodeID: current, Delta: result.Delta}); err != nil {
				if errors.Is(err, context.Canceled) {
					status = "canceled"
				}
				return zero, err
			}
		}

		to, done, err := e.graph.next(current, state)
		if err != nil {
			return zero, err
		}
		if done {
			status = "success"
			return state, nil
		}
		current = to
	}
}
