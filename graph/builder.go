package graph

// Builder accumulates a graph definition and validates it as a whole when
// Build is called. Definition methods never fail; every defect is reported
// by Build as a ValidationError so startup code has a single error path.
//
// Example:
//
//	b := graph.NewBuilder[State]()
//	b.AddNode("plan", planNode)
//	b.AddNode("execute", executeNode)
//	b.AddNode("check_result", checkNode)
//	b.SetEntry("plan")
//	b.AddConditionalEdge("plan", routePlan, map[graph.RouteKey]string{
//	    "yes": "execute",
//	    "no":  "check_result",
//	})
//	b.AddEdge("execute", "check_result")
//	b.SetTerminal("check_result")
//	g, err := b.Build()
type Builder[S any] struct {
	nodeOrder []string
	nodes     map[string][]Node[S]
	edges     []Edge
	conds     []condDef[S]
	entry     string
	entrySet  bool
	terminals []string
}

// condDef records an AddConditionalEdge call for validation at Build time.
type condDef[S any] struct {
	from  string
	cond  Condition[S]
	table map[RouteKey]string
}

// NewBuilder creates an empty graph builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		nodes: make(map[string][]Node[S]),
	}
}

// AddNode registers a node under the given ID.
func (b *Builder[S]) AddNode(id string, node Node[S]) *Builder[S] {
	if _, seen := b.nodes[id]; !seen {
		b.nodeOrder = append(b.nodeOrder, id)
	}
	b.nodes[id] = append(b.nodes[id], node)
	return b
}

// AddEdge adds an unconditional edge between two nodes.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	b.edges = append(b.edges, Edge{From: from, To: to})
	return b
}

// AddConditionalEdge routes from a node through a Condition and a table
// mapping every declared outcome to a destination node.
func (b *Builder[S]) AddConditionalEdge(from string, cond Condition[S], table map[RouteKey]string) *Builder[S] {
	b.conds = append(b.conds, condDef[S]{from: from, cond: cond, table: table})
	return b
}

// SetEntry marks the node execution starts at.
func (b *Builder[S]) SetEntry(id string) *Builder[S] {
	b.entry = id
	b.entrySet = true
	return b
}

// SetTerminal marks a node whose completion ends the run.
// Nodes without any outgoing edge are terminal implicitly.
func (b *Builder[S]) SetTerminal(id string) *Builder[S] {
	b.terminals = append(b.terminals, id)
	return b
}

// Build validates the accumulated definition and freezes it into an
// immutable Graph. It fails with a ValidationError on:
//   - empty or duplicate node IDs, nil node implementations
//   - edges or terminals referencing unknown nodes
//   - more than one outgoing edge (of either kind) from a single node
//   - a nil Select, an empty outcome set, a routing table that is not
//     total over the declared outcomes, or a table entry for an
//     undeclared outcome
//   - a missing or unknown entry node
//   - no terminal reachable from the entry
func (b *Builder[S]) Build() (*Graph[S], error) {
	g := &Graph[S]{
		nodes:     make(map[string]Node[S], len(b.nodeOrder)),
		edges:     make(map[string]string),
		conds:     make(map[string]conditional[S]),
		terminals: make(map[string]struct{}),
	}

	for _, id := range b.nodeOrder {
		defs := b.nodes[id]
		if id == "" {
			return nil, validationErrorf("node ID cannot be empty")
		}
		if len(defs) > 1 {
			return nil, validationErrorf("duplicate node ID: %s", id)
		}
		if defs[0] == nil {
			return nil, validationErrorf("node %s is nil", id)
		}
		g.nodes[id] = defs[0]
	}

	for _, e := range b.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, validationErrorf("edge from unknown node: %s", e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, validationErrorf("edge %s -> %s references unknown node: %s", e.From, e.To, e.To)
		}
		if _, dup := g.edges[e.From]; dup {
			return nil, validationErrorf("node %s has more than one unconditional edge", e.From)
		}
		g.edges[e.From] = e.To
	}

	for _, c := range b.conds {
		if _, ok := g.nodes[c.from]; !ok {
			return nil, validationErrorf("conditional edge from unknown node: %s", c.from)
		}
		if _, dup := g.conds[c.from]; dup {
			return nil, validationErrorf("node %s has more than one conditional edge", c.from)
		}
		if _, clash := g.edges[c.from]; clash {
			return nil, validationErrorf("node %s has both a conditional and an unconditional edge", c.from)
		}
		if c.cond.Select == nil {
			return nil, validationErrorf("conditional edge from %s has nil Select", c.from)
		}
		if len(c.cond.Outcomes) == 0 {
			return nil, validationErrorf("conditional edge from %s declares no outcomes", c.from)
		}
		declared := make(map[RouteKey]struct{}, len(c.cond.Outcomes))
		for _, key := range c.cond.Outcomes {
			declared[key] = struct{}{}
			dest, ok := c.table[key]
			if !ok {
				return nil, validationErrorf("routing table from %s is missing outcome %q", c.from, string(key))
			}
			if _, ok := g.nodes[dest]; !ok {
				return nil, validationErrorf("routing table from %s: outcome %q references unknown node: %s", c.from, string(key), dest)
			}
		}
		for key := range c.table {
			if _, ok := declared[key]; !ok {
				return nil, validationErrorf("routing table from %s has entry for undeclared outcome %q", c.from, string(key))
			}
		}
		table := make(map[RouteKey]string, len(c.table))
		for key, dest := range c.table {
			table[key] = dest
		}
		g.conds[c.from] = conditional[S]{cond: c.cond, table: table}
	}

	for _, id := range b.terminals {
		if _, ok := g.nodes[id]; !ok {
			return nil, validationErrorf("terminal references unknown node: %s", id)
		}
		g.terminals[id] = struct{}{}
	}

	if !b.entrySet || b.entry == "" {
		return nil, validationErrorf("entry node not set")
	}
	if _, ok := g.nodes[b.entry]; !ok {
		return nil, validationErrorf("entry references unknown node: %s", b.entry)
	}
	g.entry = b.entry

	if !g.terminalReachable() {
		return nil, validationErrorf("no terminal reachable from entry %s", g.entry)
	}

	return g, nil
}

// terminalReachable walks all possible transitions from the entry and
// reports whether some run can end: a reachable node that is marked
// terminal or has no outgoing edge.
func (g *Graph[S]) terminalReachable() bool {
	visited := make(map[string]struct{})
	frontier := []string{g.entry}

	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		if _, ok := g.terminals[id]; ok {
			return true
		}
		if c, ok := g.conds[id]; ok {
			for _, dest := range c.table {
				frontier = append(frontier, dest)
			}
			continue
		}
		if dest, ok := g.edges[id]; ok {
			frontier = append(frontier, dest)
			continue
		}
		// No outgoing edge: implicit terminal.
		return true
	}

	return false
}
