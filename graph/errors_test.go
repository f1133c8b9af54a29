package graph

import (
	"context"
	"errors"
	"testing"
)

func TestRoutingError_LyingSelect(t *testing.T) {
	// A Select that returns a key outside its declared outcomes is the one
	// way a validated graph can still mis-route; it must abort the run
	// with a RoutingError.
	cond := Condition[testState]{
		Select:   func(testState) RouteKey { return "undeclared" },
		Outcomes: []RouteKey{"x"},
	}

	b := NewBuilder[testState]()
	b.AddNode("a", passNode("a"))
	b.AddNode("b", passNode("b"))
	b.AddConditionalEdge("a", cond, map[RouteKey]string{"x": "b"})
	b.SetEntry("a")
	b.SetTerminal("b")
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	engine, err := New(g, testReduce)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = engine.Run(context.Background(), "run-001", testState{})
	var rerr *RoutingError
	if !errors.As(err, &rerr) {
		t.Fatalf("Run() error = %v (%T), want *RoutingError", err, err)
	}
	if rerr.NodeID != "a" || rerr.Key != "undeclared" {
		t.Errorf("RoutingError = %+v, want node a key undeclared", rerr)
	}
}

func TestNodeError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &NodeError{NodeID: "plan", Message: "root cause", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(NodeError, cause) = false, want true")
	}
	if got := err.Error(); got != "node plan: root cause" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := validationErrorf("duplicate node ID: %s", "plan")
	want := "graph validation: duplicate node ID: plan"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
