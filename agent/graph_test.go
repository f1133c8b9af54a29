package agent

import (
	"context"
	"testing"

	"github.com/dvalle/stategraph/graph"
)

// zeroDelays disables simulated latency so runs complete instantly.
func zeroDelays() Config {
	return Config{}
}

func runWorkflow(t *testing.T, prompt string) (State, []string) {
	t.Helper()

	engine, err := NewEngine(zeroDelays())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	var visited []string
	final, err := engine.RunWithSteps(context.Background(), "run-test", NewState(prompt),
		func(_ context.Context, step graph.Step[State]) error {
			visited = append(visited, step.NodeID)
			return nil
		})
	if err != nil {
		t.Fatalf("RunWithSteps() error = %v", err)
	}
	return final, visited
}

func TestWorkflow_SimplePrompt(t *testing.T) {
	final, visited := runWorkflow(t, "hola")

	wantPath := []string{NodePlan, NodeCheckResult}
	if len(visited) != len(wantPath) {
		t.Fatalf("visited = %v, want %v", visited, wantPath)
	}
	for i := range wantPath {
		if visited[i] != wantPath[i] {
			t.Fatalf("visited = %v, want %v", visited, wantPath)
		}
	}

	if final.PlanNeeded != PlanNo {
		t.Errorf("PlanNeeded = %q, want no", final.PlanNeeded)
	}
	if final.ExecutionComplete {
		t.Error("ExecutionComplete = true, want false")
	}
	want := "Quick response: no complex execution was required for: 'hola'. Process finished."
	if final.FinalAnswer != want {
		t.Errorf("FinalAnswer = %q, want %q", final.FinalAnswer, want)
	}
}

func TestWorkflow_ComplexPrompt(t *testing.T) {
	final, visited := runWorkflow(t, "simular carga")

	wantPath := []string{NodePlan, NodeExecute, NodeCheckResult}
	if len(visited) != len(wantPath) {
		t.Fatalf("visited = %v, want %v", visited, wantPath)
	}
	for i := range wantPath {
		if visited[i] != wantPath[i] {
			t.Fatalf("visited = %v, want %v", visited, wantPath)
		}
	}

	if final.PlanNeeded != PlanYes {
		t.Errorf("PlanNeeded = %q, want yes", final.PlanNeeded)
	}
	if !final.ExecutionComplete {
		t.Error("ExecutionComplete = false, want true")
	}
	want := "Task complete: the simulation of the requested task ('simular carga') finished successfully after 3 seconds of computation. The agent has finished its work cycle."
	if final.FinalAnswer != want {
		t.Errorf("FinalAnswer = %q, want %q", final.FinalAnswer, want)
	}
}

func TestWorkflow_UserMessagePreserved(t *testing.T) {
	final, _ := runWorkflow(t, "simular carga")
	if final.UserMessage != "simular carga" {
		t.Errorf("UserMessage = %q, want original prompt", final.UserMessage)
	}
}

func TestBuildGraph_Valid(t *testing.T) {
	g, err := BuildGraph(zeroDelays())
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if g.Entry() != NodePlan {
		t.Errorf("Entry() = %q, want plan", g.Entry())
	}
	ids := g.NodeIDs()
	if len(ids) != 3 {
		t.Errorf("NodeIDs() = %v, want 3 nodes", ids)
	}
}

func TestWorkflow_StepsNeverExceedLimit(t *testing.T) {
	// Longest path is plan -> execute -> check_result.
	_, visited := runWorkflow(t, "ejecutar la tarea")
	if len(visited) > maxSteps {
		t.Errorf("run took %d steps, limit is %d", len(visited), maxSteps)
	}
}
