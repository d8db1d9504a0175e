package types

import (
	"fmt"
	"time"
)

// ExecutionMode selects the strategy a flow is executed with.
type ExecutionMode string

const (
	// ModeSequential executes tasks in declaration order, stopping at the
	// first failure.
	ModeSequential ExecutionMode = "sequential"
	// ModeDAG resolves a topological order from task dependencies.
	ModeDAG ExecutionMode = "dag"
)

// Task is a single unit of work within a flow. Tasks are immutable once
// added to a flow; dependency existence and acyclicity are flow-level
// invariants checked at execution time, not here.
type Task struct {
	// ID uniquely identifies the task within its flow.
	ID string `json:"id" yaml:"id"`
	// Capability names the registered tool this task invokes.
	Capability string `json:"capability" yaml:"capability"`
	// Args are the task-specific arguments. They win over flow context
	// on key collision.
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	// Dependencies lists task IDs that must succeed before this task
	// becomes ready. Empty for root tasks.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// NewTask creates a task, validating that the ID is non-empty.
func NewTask(id, capability string, args map[string]any, deps ...string) (Task, error) {
	if id == "" {
		return Task{}, NewError(ErrInvalidTask, "task id is required")
	}
	return Task{
		ID:           id,
		Capability:   capability,
		Args:         args,
		Dependencies: deps,
	}, nil
}

// MustTask is NewTask but panics on an empty ID. Intended for
// statically-known task definitions.
func MustTask(id, capability string, args map[string]any, deps ...string) Task {
	t, err := NewTask(id, capability, args, deps...)
	if err != nil {
		panic(err)
	}
	return t
}

// TaskResult is the outcome of one task execution. Exactly one result is
// produced per executed task per run.
type TaskResult struct {
	TaskID  string        `json:"task_id"`
	Success bool          `json:"success"`
	Output  any           `json:"output,omitempty"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r TaskResult) String() string {
	status := "SUCCESS"
	if !r.Success {
		status = "FAILURE"
	}
	return fmt.Sprintf("TaskResult(%s: %s in %s)", r.TaskID, status, r.Elapsed)
}
