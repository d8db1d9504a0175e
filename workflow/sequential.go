package workflow

import (
	"context"

	"github.com/BaSui01/taskflow/types"
)

// SequentialStrategy executes tasks one after another in declaration order,
// short-circuiting on the first failure. Later tasks are neither run nor
// recorded.
type SequentialStrategy struct{}

// Run executes the tasks sequentially. Each task sees the flow context merged
// with its own arguments, plus the outputs of every earlier successful task
// under "<task_id>_output" keys.
func (s *SequentialStrategy) Run(ctx context.Context, tasks []types.Task, exec Executor, flowContext map[string]any) ([]types.TaskResult, error) {
	// Run on a private copy. The caller's map stays untouched.
	runContext := mergeArgs(flowContext, nil)
	states := newStateSet(taskIDs(tasks))

	results := make([]types.TaskResult, 0, len(tasks))
	for _, task := range tasks {
		states.transition(task.ID, StateReady)
		args := mergeArgs(runContext, task.Args)

		states.transition(task.ID, StateRunning)
		result := exec(ctx, task, args)
		result.TaskID = task.ID
		results = append(results, result)

		if !result.Success {
			states.transition(task.ID, StateFailed)
			break
		}
		states.transition(task.ID, StateSucceeded)
		runContext[outputKey(task.ID)] = result.Output
	}

	return results, nil
}

func taskIDs(tasks []types.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
