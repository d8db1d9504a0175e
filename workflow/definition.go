package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/taskflow/types"
)

// FlowDefinition is the serializable form of a flow. It can be loaded from
// YAML (or JSON) and turned into an executable Flow.
type FlowDefinition struct {
	// Name is the flow name.
	Name string `json:"name" yaml:"name"`
	// Mode is the execution mode ("sequential" or "dag").
	Mode string `json:"mode" yaml:"mode"`
	// Context holds shared default arguments available to every task.
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	// Tasks contains the task definitions in declaration order.
	Tasks []types.Task `json:"tasks" yaml:"tasks"`
}

// ParseFlowDefinition parses a YAML flow definition.
func ParseFlowDefinition(data []byte) (*FlowDefinition, error) {
	var def FlowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse flow definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFlowFile reads and parses a flow definition file.
func LoadFlowFile(path string) (*FlowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow file: %w", err)
	}
	return ParseFlowDefinition(data)
}

// Validate checks definition-level invariants: a name, a known mode, and
// unique non-empty task ids. Dependency existence and acyclicity stay
// execution-time checks, because flows may also be built incrementally.
func (d *FlowDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("flow definition requires a name")
	}
	switch types.ExecutionMode(d.Mode) {
	case types.ModeSequential, types.ModeDAG, "":
	default:
		return fmt.Errorf("unknown execution mode %q", d.Mode)
	}
	seen := make(map[string]bool, len(d.Tasks))
	for i, task := range d.Tasks {
		if task.ID == "" {
			return fmt.Errorf("task %d has no id", i)
		}
		if seen[task.ID] {
			return fmt.Errorf("duplicate task id %q", task.ID)
		}
		seen[task.ID] = true
	}
	return nil
}

// ToFlow builds an executable Flow from the definition. An empty mode
// defaults to sequential.
func (d *FlowDefinition) ToFlow() *Flow {
	mode := types.ExecutionMode(d.Mode)
	if mode == "" {
		mode = types.ModeSequential
	}
	flow := NewFlow(d.Name, mode)
	for k, v := range d.Context {
		flow.SetContext(k, v)
	}
	for _, task := range d.Tasks {
		flow.AddTask(task)
	}
	return flow
}
