// Package emit defines the observability event surface of the graph engine
// and a set of pluggable emitter backends.
package emit

// Emitter receives observability events from workflow execution.
//
// Implementations must be safe for concurrent use (many runs share one
// Emitter), must not block the run, and must not panic; backend failures
// are handled internally.
type Emitter interface {
	// Emit delivers one event to the backend.
	Emit(event Event)
}

// Event is an observability event emitted during workflow execution.
//
// This is internal telemetry (logs, traces, history buffers), distinct from
// the externally streamed frames a caller of the service sees.
type Event struct {
	// RunID identifies the run that emitted this event.
	RunID string

	// Step is the 1-indexed step number within the run.
	// Zero for run-level events.
	Step int

	// NodeID identifies the node this event belongs to.
	// Empty for run-level events.
	NodeID string

	// Msg is a short human-readable description.
	Msg string

	// Meta carries additional structured data, e.g. "duration_ms", "error".
	Meta map[string]interface{}
}
