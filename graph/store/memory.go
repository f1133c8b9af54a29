package store

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Store[S].
//
// Designed for testing, development and deployments where history does not
// need to outlive the process. Thread-safe. Memory grows with run count;
// there is no eviction.
type MemStore[S any] struct {
	mu    sync.RWMutex
	steps map[string][]StepRecord[S]
}

// NewMemStore creates an empty in-memory store.
func NewMemStore[S any]() *MemStore[S] {
	return &MemStore[S]{
		steps: make(map[string][]StepRecord[S]),
	}
}

// SaveStep appends a step record to the run's history.
func (m *MemStore[S]) SaveStep(_ context.Context, runID string, step int, nodeID string, state S) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps[runID] = append(m.steps[runID], StepRecord[S]{
		Step:   step,
		NodeID: nodeID,
		State:  state,
	})
	return nil
}

// LoadLatest returns the record with the highest step number.
func (m *MemStore[S]) LoadLatest(_ context.Context, runID string) (state S, step int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.steps[runID]
	if len(records) == 0 {
		var zero S
		return zero, 0, ErrNotFound
	}

	latest := records[0]
	for _, record := range records[1:] {
		if record.Step > latest.Step {
			latest = record
		}
	}
	return latest.State, latest.Step, nil
}

// ListSteps returns a copy of the run's history sorted by step.
func (m *MemStore[S]) ListSteps(_ context.Context, runID string) ([]StepRecord[S], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.steps[runID]
	if len(records) == 0 {
		return nil, ErrNotFound
	}

	result := make([]StepRecord[S], len(records))
	copy(result, records)
	sort.Slice(result, func(i, j int) bool { return result[i].Step < result[j].Step })
	return result, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore[S]) Close() error {
	return nil
}
