// Package graph provides an immutable workflow graph definition and a
// sequential executor that streams per-node progress.
package graph

// Edge is an unconditional connection between two nodes.
//
// A node has either a single unconditional edge or a single conditional
// edge; the graph builder rejects mixing both on the same source node.
type Edge struct {
	// From is the source node ID.
	From string

	// To is the destination node ID.
	To string
}

// RouteKey is an enumerated routing outcome produced by a Condition.
//
// Modeling routing outcomes as a declared finite set lets Build verify that
// every producible key has a destination, so an unmatched key cannot occur
// at run time against a validated graph.
type RouteKey string

// Condition selects the next node after a source node completes.
//
// Select is evaluated against the state as of the just-completed merge,
// never on stale state. It must be a pure function and must only return
// keys listed in Outcomes.
type Condition[S any] struct {
	// Select maps the current state to a routing outcome.
	Select func(state S) RouteKey

	// Outcomes declares every key Select can produce. Build validates that
	// the routing table is total over this set.
	Outcomes []RouteKey
}
