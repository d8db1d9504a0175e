package workflow

import (
	"context"
	"testing"

	"github.com/BaSui01/taskflow/types"
)

// recordingExecutor captures invocation order and the merged arguments each
// task saw, failing the capabilities listed in failOn.
type recordingExecutor struct {
	invoked []string
	args    map[string]map[string]any
	failOn  map[string]bool
}

func newRecordingExecutor(failOn ...string) *recordingExecutor {
	fail := make(map[string]bool, len(failOn))
	for _, id := range failOn {
		fail[id] = true
	}
	return &recordingExecutor{
		args:   make(map[string]map[string]any),
		failOn: fail,
	}
}

func (r *recordingExecutor) exec(ctx context.Context, task types.Task, args map[string]any) types.TaskResult {
	r.invoked = append(r.invoked, task.ID)
	r.args[task.ID] = args
	if r.failOn[task.ID] {
		return types.TaskResult{TaskID: task.ID, Success: false, Error: "boom"}
	}
	return types.TaskResult{TaskID: task.ID, Success: true, Output: task.ID + "-out"}
}

func TestSequentialStrategy_Order(t *testing.T) {
	tasks := []types.Task{
		types.MustTask("a", "noop", nil),
		types.MustTask("b", "noop", nil),
		types.MustTask("c", "noop", nil),
	}

	rec := newRecordingExecutor()
	results, err := (&SequentialStrategy{}).Run(context.Background(), tasks, rec.exec, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].TaskID != want {
			t.Errorf("result[%d] = %s, want %s", i, results[i].TaskID, want)
		}
	}
}

func TestSequentialStrategy_ShortCircuitOnFailure(t *testing.T) {
	tasks := []types.Task{
		types.MustTask("a", "noop", nil),
		types.MustTask("b", "noop", nil),
		types.MustTask("c", "noop", nil),
	}

	rec := newRecordingExecutor("b")
	results, err := (&SequentialStrategy{}).Run(context.Background(), tasks, rec.exec, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected results [a, b], got %d results", len(results))
	}
	if !results[0].Success || results[1].Success {
		t.Errorf("expected a success then b failure, got %v", results)
	}
	if len(rec.invoked) != 2 {
		t.Errorf("c must never be invoked, invocations: %v", rec.invoked)
	}
}

func TestSequentialStrategy_PublishesOutputs(t *testing.T) {
	tasks := []types.Task{
		types.MustTask("first", "noop", nil),
		types.MustTask("second", "noop", nil),
	}

	rec := newRecordingExecutor()
	if _, err := (&SequentialStrategy{}).Run(context.Background(), tasks, rec.exec, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, ok := rec.args["second"]["first_output"]
	if !ok {
		t.Fatal("second task did not see first_output")
	}
	if got != "first-out" {
		t.Errorf("first_output = %v, want first-out", got)
	}
}

func TestSequentialStrategy_TaskArgsWinOverContext(t *testing.T) {
	tasks := []types.Task{
		types.MustTask("a", "noop", map[string]any{"key": "task"}),
	}

	rec := newRecordingExecutor()
	flowContext := map[string]any{"key": "flow", "shared": 1}
	if _, err := (&SequentialStrategy{}).Run(context.Background(), tasks, rec.exec, flowContext); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if rec.args["a"]["key"] != "task" {
		t.Errorf("task args must win on collision, got %v", rec.args["a"]["key"])
	}
	if rec.args["a"]["shared"] != 1 {
		t.Errorf("flow context must be visible, got %v", rec.args["a"]["shared"])
	}
}

func TestSequentialStrategy_DoesNotMutateCallerContext(t *testing.T) {
	tasks := []types.Task{types.MustTask("a", "noop", nil)}

	flowContext := map[string]any{"shared": 1}
	rec := newRecordingExecutor()
	if _, err := (&SequentialStrategy{}).Run(context.Background(), tasks, rec.exec, flowContext); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, leaked := flowContext["a_output"]; leaked {
		t.Error("strategy leaked outputs into the caller's context map")
	}
}
