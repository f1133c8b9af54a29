package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

// newMySQLTestStore connects to the database named by TEST_MYSQL_DSN, or
// skips the test when it is not set.
func newMySQLTestStore(t *testing.T) *MySQLStore[storeTestState] {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	st, err := NewMySQLStore[storeTestState](dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// testRunID isolates test rows in a shared database.
func testRunID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestMySQLStore_SaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	st := newMySQLTestStore(t)
	runID := testRunID("run-latest")

	for step := 1; step <= 3; step++ {
		err := st.SaveStep(ctx, runID, step, "plan", storeTestState{Value: "v", Count: step})
		if err != nil {
			t.Fatalf("SaveStep(%d) error = %v", step, err)
		}
	}

	state, step, err := st.LoadLatest(ctx, runID)
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}
	if step != 3 || state.Count != 3 {
		t.Errorf("got step=%d state=%+v, want step=3 count=3", step, state)
	}
}

func TestMySQLStore_Upsert(t *testing.T) {
	ctx := context.Background()
	st := newMySQLTestStore(t)
	runID := testRunID("run-upsert")

	if err := st.SaveStep(ctx, runID, 1, "plan", storeTestState{Value: "first"}); err != nil {
		t.Fatalf("SaveStep() error = %v", err)
	}
	if err := st.SaveStep(ctx, runID, 1, "plan", storeTestState{Value: "second"}); err != nil {
		t.Fatalf("SaveStep() rewrite error = %v", err)
	}

	records, err := st.ListSteps(ctx, runID)
	if err != nil {
		t.Fatalf("ListSteps() error = %v", err)
	}
	if len(records) != 1 || records[0].State.Value != "second" {
		t.Errorf("records = %+v, want single row with value second", records)
	}
}

func TestMySQLStore_NotFound(t *testing.T) {
	ctx := context.Background()
	st := newMySQLTestStore(t)

	if _, _, err := st.LoadLatest(ctx, testRunID("run-missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadLatest(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMySQLStore_InvalidDSN(t *testing.T) {
	if _, err := NewMySQLStore[storeTestState]("bad_user:bad_pass@tcp(127.0.0.1:1)/nope?timeout=1s"); err == nil {
		t.Error("NewMySQLStore() with unreachable DSN succeeded, want error")
	}
}
