package agent

import (
	"github.com/dvalle/stategraph/graph"
)

// maxSteps bounds a run of the fixed graph. The longest path is
// plan -> execute -> check_result, so anything past that is a wiring bug.
const maxSteps = 3

// BuildGraph wires the fixed workflow and validates it:
//
//	START -> plan
//	plan --(yes)--> execute
//	plan --(no)---> check_result
//	execute -> check_result
//	check_result -> END
//
// The returned graph is immutable and shared by all runs.
func BuildGraph(cfg Config) (*graph.Graph[State], error) {
	b := graph.NewBuilder[State]()
	b.AddNode(NodePlan, planNode(cfg))
	b.AddNode(NodeExecute, executeNode(cfg))
	b.AddNode(NodeCheckResult, checkResultNode(cfg))
	b.SetEntry(NodePlan)
	b.AddConditionalEdge(NodePlan, routePlan, map[graph.RouteKey]string{
		graph.RouteKey(PlanYes): NodeExecute,
		graph.RouteKey(PlanNo):  NodeCheckResult,
	})
	b.AddEdge(NodeExecute, NodeCheckResult)
	b.SetTerminal(NodeCheckResult)
	return b.Build()
}

// NewEngine builds the workflow graph and wraps it in an engine.
// Additional options (emitter, store, metrics) are appended after the
// engine defaults, so callers can override nothing but add collaborators.
func NewEngine(cfg Config, opts ...graph.Option[State]) (*graph.Engine[State], error) {
	g, err := BuildGraph(cfg)
	if err != nil {
		return nil, err
	}

	engineOpts := append([]graph.Option[State]{
		graph.WithMaxSteps[State](maxSteps),
	}, opts...)

	return graph.New(g, Reduce, engineOpts...)
}
