package workflow

import (
	"context"
	"sort"
	"strings"

	"github.com/BaSui01/taskflow/types"
)

// DependencyOutputsKey is the reserved argument key carrying the outputs of
// a task's own declared dependencies (and only those) into its invocation.
const DependencyOutputsKey = "dependency_outputs"

// DAGStrategy resolves a topological execution order by repeated ready-set
// extraction. Within a ready set, tasks run in declaration order so the
// result sequence is deterministic.
//
// Failure policy is conservative fail-fast: any task failure halts the run
// immediately, returning the results produced so far. Independent branches
// that had not started are not executed.
type DAGStrategy struct{}

// Run executes the task graph. It returns a *types.Error with code
// ErrCircularDependency when pending tasks remain but none is ready, which
// distinguishes a malformed graph from an ordinary tool failure.
func (s *DAGStrategy) Run(ctx context.Context, tasks []types.Task, exec Executor, flowContext map[string]any) ([]types.TaskResult, error) {
	base := mergeArgs(flowContext, nil)
	states := newStateSet(taskIDs(tasks))

	pending := make([]types.Task, len(tasks))
	copy(pending, tasks)

	completed := make(map[string]types.TaskResult, len(tasks))
	results := make([]types.TaskResult, 0, len(tasks))

	for len(pending) > 0 {
		ready := readySet(pending, completed)
		if len(ready) == 0 {
			// Pending tasks remain but nothing can run: the graph has a
			// cycle or references a task missing from the flow.
			return results, types.Errorf(types.ErrCircularDependency,
				"no ready tasks among pending [%s]", strings.Join(pendingIDs(pending), ", "))
		}

		for _, task := range ready {
			states.transition(task.ID, StateReady)

			args := mergeArgs(base, task.Args)
			args[DependencyOutputsKey] = dependencyOutputs(task, completed)

			states.transition(task.ID, StateRunning)
			result := exec(ctx, task, args)
			result.TaskID = task.ID
			results = append(results, result)

			if !result.Success {
				states.transition(task.ID, StateFailed)
				return results, nil
			}
			states.transition(task.ID, StateSucceeded)
			completed[task.ID] = result
			base[outputKey(task.ID)] = result.Output
		}

		pending = withoutCompleted(pending, completed)
	}

	return results, nil
}

// readySet extracts the tasks whose dependencies have all completed, in
// declaration order. Pure: no side effects, so a later implementation can
// dispatch a whole ready set concurrently without changing ordering
// semantics for dependent tasks.
func readySet(pending []types.Task, completed map[string]types.TaskResult) []types.Task {
	var ready []types.Task
	for _, task := range pending {
		if depsSatisfied(task, completed) {
			ready = append(ready, task)
		}
	}
	return ready
}

func depsSatisfied(task types.Task, completed map[string]types.TaskResult) bool {
	for _, dep := range task.Dependencies {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}

// dependencyOutputs maps each declared dependency of the task to its output.
// Sibling outputs are deliberately excluded.
func dependencyOutputs(task types.Task, completed map[string]types.TaskResult) map[string]any {
	outputs := make(map[string]any, len(task.Dependencies))
	for _, dep := range task.Dependencies {
		if res, ok := completed[dep]; ok {
			outputs[dep] = res.Output
		}
	}
	return outputs
}

func withoutCompleted(pending []types.Task, completed map[string]types.TaskResult) []types.Task {
	remaining := pending[:0]
	for _, task := range pending {
		if _, ok := completed[task.ID]; !ok {
			remaining = append(remaining, task)
		}
	}
	return remaining
}

func pendingIDs(pending []types.Task) []string {
	ids := taskIDs(pending)
	sort.Strings(ids)
	return ids
}
