package workflow

import (
	"context"

	"github.com/BaSui01/taskflow/types"
)

// Executor invokes a task's capability with its merged arguments and returns
// the result. The controller supplies it; strategies never touch the tool
// layer or the audit store directly.
type Executor func(ctx context.Context, task types.Task, args map[string]any) types.TaskResult

// Strategy turns a set of tasks into an ordered execution sequence.
//
// Run returns one TaskResult per executed task, in execution order. A nil
// error with a short result list means the run halted on a task failure;
// a non-nil error marks a flow-level fault such as a circular dependency.
type Strategy interface {
	Run(ctx context.Context, tasks []types.Task, exec Executor, flowContext map[string]any) ([]types.TaskResult, error)
}

// ForMode returns the strategy matching an execution mode.
func ForMode(mode types.ExecutionMode) Strategy {
	switch mode {
	case types.ModeDAG:
		return &DAGStrategy{}
	default:
		return &SequentialStrategy{}
	}
}

// mergeArgs merges the run context with task arguments. Task arguments win
// on key collision. Always returns a fresh map.
func mergeArgs(runContext, taskArgs map[string]any) map[string]any {
	merged := make(map[string]any, len(runContext)+len(taskArgs))
	for k, v := range runContext {
		merged[k] = v
	}
	for k, v := range taskArgs {
		merged[k] = v
	}
	return merged
}

// outputKey is the run-context key a task's output is published under for
// downstream tasks.
func outputKey(taskID string) string {
	return taskID + "_output"
}
