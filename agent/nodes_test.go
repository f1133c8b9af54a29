package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNeedsExecution(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"simular carga", true},
		{"ejecutar el proceso", true},
		{"SIMULAR CARGA", true},
		{"Quiero Ejecutar algo", true},
		{"hola", false},
		{"", false},
		{"how are you", false},
		// Plain substring matching: partial-word hits trigger.
		{"simularemos luego", true},
	}

	for _, tt := range tests {
		if got := NeedsExecution(tt.message); got != tt.want {
			t.Errorf("NeedsExecution(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestPlanNode_Decision(t *testing.T) {
	node := planNode(Config{})

	result := node.Run(context.Background(), NewState("simular carga"))
	if result.Err != nil {
		t.Fatalf("plan node error = %v", result.Err)
	}
	if result.Delta.PlanNeeded != PlanYes {
		t.Errorf("PlanNeeded = %q, want yes", result.Delta.PlanNeeded)
	}
	// Decision is the only field the plan node writes.
	if result.Delta.UserMessage != "" || result.Delta.ExecutionComplete || result.Delta.FinalAnswer != "" {
		t.Errorf("plan delta touched foreign fields: %+v", result.Delta)
	}

	result = node.Run(context.Background(), NewState("hola"))
	if result.Delta.PlanNeeded != PlanNo {
		t.Errorf("PlanNeeded = %q, want no", result.Delta.PlanNeeded)
	}
}

func TestExecuteNode_ProvisionalAnswer(t *testing.T) {
	node := executeNode(Config{})

	result := node.Run(context.Background(), NewState("simular carga"))
	if result.Err != nil {
		t.Fatalf("execute node error = %v", result.Err)
	}
	if !result.Delta.ExecutionComplete {
		t.Error("ExecutionComplete = false, want true")
	}
	want := "the simulation of the requested task ('simular carga') finished successfully after 3 seconds of computation"
	if result.Delta.FinalAnswer != want {
		t.Errorf("FinalAnswer = %q, want %q", result.Delta.FinalAnswer, want)
	}
}

func TestCheckResultNode_Templates(t *testing.T) {
	node := checkResultNode(Config{})

	t.Run("after execution", func(t *testing.T) {
		state := State{
			UserMessage:       "simular carga",
			PlanNeeded:        PlanYes,
			ExecutionComplete: true,
			FinalAnswer:       "the simulation of the requested task ('simular carga') finished successfully after 3 seconds of computation",
		}
		result := node.Run(context.Background(), state)
		if result.Err != nil {
			t.Fatalf("check_result error = %v", result.Err)
		}
		if !strings.HasPrefix(result.Delta.FinalAnswer, "Task complete: ") {
			t.Errorf("FinalAnswer = %q, want Task complete prefix", result.Delta.FinalAnswer)
		}
		if !strings.Contains(result.Delta.FinalAnswer, state.FinalAnswer) {
			t.Errorf("FinalAnswer does not wrap the provisional answer: %q", result.Delta.FinalAnswer)
		}
	})

	t.Run("without execution", func(t *testing.T) {
		state := State{UserMessage: "hola", PlanNeeded: PlanNo}
		result := node.Run(context.Background(), state)
		if result.Err != nil {
			t.Fatalf("check_result error = %v", result.Err)
		}
		want := "Quick response: no complex execution was required for: 'hola'. Process finished."
		if result.Delta.FinalAnswer != want {
			t.Errorf("FinalAnswer = %q, want %q", result.Delta.FinalAnswer, want)
		}
	})
}

func TestNode_CancellationDuringDelay(t *testing.T) {
	node := executeNode(Config{ExecuteDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result := node.Run(ctx, NewState("simular carga"))
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("result.Err = %v, want context.Canceled", result.Err)
	}
}

func TestRoutePlan_OutcomesAreTotal(t *testing.T) {
	if got := routePlan.Select(State{PlanNeeded: PlanYes}); got != "yes" {
		t.Errorf("Select(yes) = %q", got)
	}
	if got := routePlan.Select(State{PlanNeeded: PlanNo}); got != "no" {
		t.Errorf("Select(no) = %q", got)
	}
	if len(routePlan.Outcomes) != 2 {
		t.Errorf("Outcomes = %v, want [yes no]", routePlan.Outcomes)
	}
}
