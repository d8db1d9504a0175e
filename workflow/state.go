package workflow

// TaskState tracks a task through one execution run.
type TaskState string

const (
	// StatePending means dependencies have not all completed yet. Tasks cut
	// off by an upstream failure or a cycle stay PENDING for the whole run.
	StatePending TaskState = "pending"
	// StateReady means every dependency has completed successfully.
	StateReady TaskState = "ready"
	// StateRunning means the task's capability is being invoked.
	StateRunning TaskState = "running"
	// StateSucceeded is terminal success.
	StateSucceeded TaskState = "succeeded"
	// StateFailed is terminal failure.
	StateFailed TaskState = "failed"
)

// stateSet tracks per-task states during a run. It is owned by a single
// strategy invocation and never shared.
type stateSet map[string]TaskState

func newStateSet(ids []string) stateSet {
	s := make(stateSet, len(ids))
	for _, id := range ids {
		s[id] = StatePending
	}
	return s
}

func (s stateSet) transition(id string, to TaskState) {
	s[id] = to
}
