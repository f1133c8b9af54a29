package graph

import (
	"time"

	"github.com/dvalle/stategraph/graph/emit"
	"github.com/dvalle/stategraph/graph/store"
)

// Options configures Engine execution behavior. Zero values are valid.
type Options struct {
	// MaxSteps limits a run to prevent infinite loops from a miswired
	// graph. 0 means no limit.
	MaxSteps int

	// DefaultNodeTimeout bounds every node execution unless overridden
	// per node. 0 means unlimited.
	DefaultNodeTimeout time.Duration

	// NodeTimeouts overrides DefaultNodeTimeout for specific node IDs.
	NodeTimeouts map[string]time.Duration
}

// Option is a functional option for configuring an Engine.
//
// Options are generic over the state type because some collaborators
// (the step store) are themselves generic.
type Option[S any] func(e *Engine[S])

// WithEmitter attaches an observability emitter. Nil disables emission.
func WithEmitter[S any](emitter emit.Emitter) Option[S] {
	return func(e *Engine[S]) {
		e.emitter = emitter
	}
}

// WithStore attaches a step-history store. Nil disables recording.
func WithStore[S any](st store.Store[S]) Option[S] {
	return func(e *Engine[S]) {
		e.store = st
	}
}

// WithMetrics attaches a Prometheus metrics collector.
func WithMetrics[S any](m *Metrics) Option[S] {
	return func(e *Engine[S]) {
		e.metrics = m
	}
}

// WithMaxSteps limits run length. When exceeded, Run returns
// ErrMaxStepsExceeded.
func WithMaxSteps[S any](n int) Option[S] {
	return func(e *Engine[S]) {
		e.opts.MaxSteps = n
	}
}

// WithDefaultNodeTimeout bounds every node execution. Overrun aborts the
// run with a NodeError.
func WithDefaultNodeTimeout[S any](d time.Duration) Option[S] {
	return func(e *Engine[S]) {
		e.opts.DefaultNodeTimeout = d
	}
}

// WithNodeTimeout overrides the default timeout for one node.
func WithNodeTimeout[S any](nodeID string, d time.Duration) Option[S] {
	return func(e *Engine[S]) {
		if e.opts.NodeTimeouts == nil {
			e.opts.NodeTimeouts = make(map[string]time.Duration)
		}
		e.opts.NodeTimeouts[nodeID] = d
	}
}
