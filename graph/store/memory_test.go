package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type storeTestState struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func TestMemStore_SaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore[storeTestState]()
	defer st.Close()

	for step := 1; step <= 3; step++ {
		err := st.SaveStep(ctx, "run-001", step, "plan", storeTestState{Value: "v", Count: step})
		if err != nil {
			t.Fatalf("SaveStep(%d) error = %v", step, err)
		}
	}

	state, step, err := st.LoadLatest(ctx, "run-001")
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}
	if step != 3 {
		t.Errorf("step = %d, want 3", step)
	}
	if state.Count != 3 {
		t.Errorf("state.Count = %d, want 3", state.Count)
	}
}

func TestMemStore_LoadLatest_NotFound(t *testing.T) {
	st := NewMemStore[storeTestState]()
	defer st.Close()

	_, _, err := st.LoadLatest(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadLatest(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemStore_ListSteps(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore[storeTestState]()
	defer st.Close()

	// Insert out of order; ListSteps must sort by step.
	for _, step := range []int{2, 1, 3} {
		nodeID := fmt.Sprintf("node-%d", step)
		if err := st.SaveStep(ctx, "run-001", step, nodeID, storeTestState{Count: step}); err != nil {
			t.Fatalf("SaveStep(%d) error = %v", step, err)
		}
	}

	records, err := st.ListSteps(ctx, "run-001")
	if err != nil {
		t.Fatalf("ListSteps() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, record := range records {
		if record.Step != i+1 {
			t.Errorf("records[%d].Step = %d, want %d", i, record.Step, i+1)
		}
	}
	if records[1].NodeID != "node-2" {
		t.Errorf("records[1].NodeID = %q, want node-2", records[1].NodeID)
	}
}

func TestMemStore_ListSteps_NotFound(t *testing.T) {
	st := NewMemStore[storeTestState]()
	defer st.Close()

	_, err := st.ListSteps(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ListSteps(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemStore_RunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore[storeTestState]()
	defer st.Close()

	_ = st.SaveStep(ctx, "run-a", 1, "plan", storeTestState{Value: "a"})
	_ = st.SaveStep(ctx, "run-b", 1, "plan", storeTestState{Value: "b"})

	state, _, err := st.LoadLatest(ctx, "run-a")
	if err != nil {
		t.Fatalf("LoadLatest(run-a) error = %v", err)
	}
	if state.Value != "a" {
		t.Errorf("run-a state.Value = %q, want a", state.Value)
	}
}

func TestMemStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore[storeTestState]()
	defer st.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID := fmt.Sprintf("run-%03d", id)
			for step := 1; step <= 10; step++ {
				_ = st.SaveStep(ctx, runID, step, "plan", storeTestState{Count: step})
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		runID := fmt.Sprintf("run-%03d", i)
		records, err := st.ListSteps(ctx, runID)
		if err != nil {
			t.Fatalf("ListSteps(%s) error = %v", runID, err)
		}
		if len(records) != 10 {
			t.Errorf("%s has %d records, want 10", runID, len(records))
		}
	}
}
