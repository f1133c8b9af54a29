package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvalle/stategraph/graph"
)

// Node IDs of the fixed workflow.
const (
	NodePlan        = "plan"
	NodeExecute     = "execute"
	NodeCheckResult = "check_result"
)

// Final-answer templates. These are part of the externally observable
// content contract; clients match on this text.
const (
	provisionalAnswerTemplate = "the simulation of the requested task ('%s') finished successfully after 3 seconds of computation"
	taskCompleteTemplate      = "Task complete: %s. The agent has finished its work cycle."
	quickResponseTemplate     = "Quick response: no complex execution was required for: '%s'. Process finished."
)

// triggerKeywords are the case-insensitive substrings in the user message
// that make the plan node request execution. They are in the source locale
// of the task vocabulary ("simulate" / "execute").
var triggerKeywords = []string{"simular", "ejecutar"}

// NeedsExecution reports whether the prompt asks for a complex task.
// Matching is plain case-insensitive substring, so partial-word hits
// trigger as well.
func NeedsExecution(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range triggerKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Config controls the simulated latency of each node. Zero values disable
// the delay, which tests rely on.
type Config struct {
	// PlanDelay simulates planning think time before routing.
	PlanDelay time.Duration

	// ExecuteDelay simulates the long-running complex task.
	ExecuteDelay time.Duration

	// VerifyDelay simulates result processing in check_result.
	VerifyDelay time.Duration
}

// DefaultConfig returns the production latencies (0.5s / 3s / 0.5s).
func DefaultConfig() Config {
	return Config{
		PlanDelay:    500 * time.Millisecond,
		ExecuteDelay: 3 * time.Second,
		VerifyDelay:  500 * time.Millisecond,
	}
}

// sleep blocks for d or until ctx is done. This is the only suspension
// point inside a node, so cancellation takes effect here.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// planNode inspects the user message and decides whether execution is
// needed. It writes only PlanNeeded.
func planNode(cfg Config) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) graph.NodeResult[State] {
		if err := sleep(ctx, cfg.PlanDelay); err != nil {
			return graph.NodeResult[State]{Err: err}
		}

		decision := PlanNo
		if NeedsExecution(s.UserMessage) {
			decision = PlanYes
		}
		return graph.NodeResult[State]{Delta: State{PlanNeeded: decision}}
	}
}

// executeNode simulates the long task. It writes ExecutionComplete and a
// provisional FinalAnswer that check_result later wraps.
func executeNode(cfg Config) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) graph.NodeResult[State] {
		if err := sleep(ctx, cfg.ExecuteDelay); err != nil {
			return graph.NodeResult[State]{Err: err}
		}

		return graph.NodeResult[State]{Delta: State{
			ExecutionComplete: true,
			FinalAnswer:       fmt.Sprintf(provisionalAnswerTemplate, s.UserMessage),
		}}
	}
}

// checkResultNode produces the externally visible result text, overwriting
// FinalAnswer with one of the two templates.
func checkResultNode(cfg Config) graph.NodeFunc[State] {
	return func(ctx context.Context, s State) graph.NodeResult[State] {
		if err := sleep(ctx, cfg.VerifyDelay); err != nil {
			return graph.NodeResult[State]{Err: err}
		}

		var answer string
		if s.ExecutionComplete {
			answer = fmt.Sprintf(taskCompleteTemplate, s.FinalAnswer)
		} else {
			answer = fmt.Sprintf(quickResponseTemplate, s.UserMessage)
		}
		return graph.NodeResult[State]{Delta: State{FinalAnswer: answer}}
	}
}

// routePlan routes the plan node on PlanNeeded. Outcomes are declared so
// the routing table is validated as total at build time.
var routePlan = graph.Condition[State]{
	Select: func(s State) graph.RouteKey {
		return graph.RouteKey(s.PlanNeeded)
	},
	Outcomes: []graph.RouteKey{
		graph.RouteKey(PlanYes),
		graph.RouteKey(PlanNo),
	},
}
