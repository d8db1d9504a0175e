package workflow

import (
	"github.com/BaSui01/taskflow/types"
)

// Flow is a named, ordered collection of tasks plus a shared context and an
// execution mode. A Flow is built once (append-only) and may be executed any
// number of times; executions never mutate the stored context.
type Flow struct {
	name    string
	mode    types.ExecutionMode
	tasks   []types.Task
	context map[string]any
}

// NewFlow creates an empty flow with the given name and mode.
func NewFlow(name string, mode types.ExecutionMode) *Flow {
	return &Flow{
		name:    name,
		mode:    mode,
		context: make(map[string]any),
	}
}

// AddTask appends a task to the flow. Builder-style: returns the flow.
func (f *Flow) AddTask(task types.Task) *Flow {
	f.tasks = append(f.tasks, task)
	return f
}

// SetContext sets a context variable available to all tasks as a default
// argument. Task-specific arguments win on key collision.
func (f *Flow) SetContext(key string, value any) *Flow {
	f.context[key] = value
	return f
}

// Name returns the flow name.
func (f *Flow) Name() string {
	return f.name
}

// Mode returns the flow's execution mode.
func (f *Flow) Mode() types.ExecutionMode {
	return f.mode
}

// Tasks returns the tasks in declaration order.
func (f *Flow) Tasks() []types.Task {
	out := make([]types.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// ContextSnapshot returns a copy of the shared context. Each execution works
// on its own snapshot.
func (f *Flow) ContextSnapshot() map[string]any {
	snap := make(map[string]any, len(f.context))
	for k, v := range f.context {
		snap[k] = v
	}
	return snap
}

// Len returns the number of tasks in the flow.
func (f *Flow) Len() int {
	return len(f.tasks)
}
