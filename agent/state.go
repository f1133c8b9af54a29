// Package agent defines the fixed agent workflow: state, nodes, routing and
// the externally visible message tables.
package agent

// PlanDecision is the outcome of the planning node.
type PlanDecision string

const (
	// PlanUnset means the planning node has not run yet.
	PlanUnset PlanDecision = ""

	// PlanYes routes the run through the execution node.
	PlanYes PlanDecision = "yes"

	// PlanNo skips execution and goes straight to verification.
	PlanNo PlanDecision = "no"
)

// State is the record threaded through one workflow run.
//
// Each field is written by exactly one node per run: UserMessage is set once
// at run start, PlanNeeded only by the plan node, ExecutionComplete only by
// the execute node, FinalAnswer provisionally by execute and finally by
// check_result. A State is owned by a single run and never shared.
type State struct {
	UserMessage       string       `json:"user_message"`
	PlanNeeded        PlanDecision `json:"plan_needed"`
	ExecutionComplete bool         `json:"execution_complete"`
	FinalAnswer       string       `json:"final_answer,omitempty"`
}

// NewState builds the initial state for a run from the caller's prompt.
func NewState(prompt string) State {
	return State{UserMessage: prompt}
}

// Reduce merges a partial update into the previous state.
//
// The merge is shallow and per-field: a zero-valued delta field leaves the
// previous value untouched. UserMessage is write-once; it is never
// overwritten after run start.
func Reduce(prev, delta State) State {
	if prev.UserMessage == "" && delta.UserMessage != "" {
		prev.UserMessage = delta.UserMessage
	}
	if delta.PlanNeeded != PlanUnset {
		prev.PlanNeeded = delta.PlanNeeded
	}
	if delta.ExecutionComplete {
		prev.ExecutionComplete = true
	}
	if delta.FinalAnswer != "" {
		prev.FinalAnswer = delta.FinalAnswer
	}
	return prev
}
