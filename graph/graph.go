package graph

// Graph is an immutable workflow definition produced by Builder.Build.
//
// It holds the node registry, unconditional edges, conditional routing and
// the entry/terminal markers. A Graph is never mutated after Build, so it
// may be shared by any number of concurrent runs without locking.
//
// Type parameter S is the state type shared across the workflow.
type Graph[S any] struct {
	nodes     map[string]Node[S]
	edges     map[string]string
	conds     map[string]conditional[S]
	entry     string
	terminals map[string]struct{}
}

// conditional pairs a Condition with its routing table.
type conditional[S any] struct {
	cond  Condition[S]
	table map[RouteKey]string
}

// Entry returns the ID of the entry node.
func (g *Graph[S]) Entry() string {
	return g.entry
}

// NodeIDs returns the IDs of all registered nodes, in no particular order.
func (g *Graph[S]) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// node returns the implementation registered under id.
func (g *Graph[S]) node(id string) (Node[S], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// next determines the node following id, given the just-merged state.
//
// Returns done=true when id is a terminal marker or has no outgoing edge.
// A RoutingError is returned only if a condition produces a key absent from
// its table, which Build rules out for declared outcomes.
func (g *Graph[S]) next(id string, state S) (to string, done bool, err error) {
	if _, ok := g.terminals[id]; ok {
		return "", true, nil
	}
	if c, ok := g.conds[id]; ok {
		key := c.cond.Select(state)
		dest, ok := c.table[key]
		if !ok {
			return "", false, &RoutingError{NodeID: id, Key: key}
		}
		return dest, false, nil
	}
	if dest, ok := g.edges[id]; ok {
		return dest, false, nil
	}
	return "", true, nil
}
