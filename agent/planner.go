package agent

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/taskflow/llm"
	"github.com/BaSui01/taskflow/types"
	"github.com/BaSui01/taskflow/workflow"
)

// Planner turns a flow or a natural-language goal into an ordered task list.
// A failure triggers the controller's fallback plan, never an aborted run.
type Planner interface {
	Plan(ctx context.Context, flow *workflow.Flow, input string) ([]types.Task, error)
}

const plannerSystemPrompt = "You are a task decomposition engine. Break the user's goal into a " +
	"structured JSON object {\"tasks\": [...]} where each task has: " +
	"\"id\", \"capability\" (tool name), \"args\" (tool input), and optional \"dependencies\". " +
	"Return JSON only."

// LLMPlanner plans with an LLM client, parsing a JSON task list out of the
// model's prose.
type LLMPlanner struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMPlanner 创建基于 LLM 的规划器。
func NewLLMPlanner(client llm.Client, logger *zap.Logger) *LLMPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMPlanner{
		client: client,
		logger: logger.With(zap.String("component", "planner")),
	}
}

// Plan returns the flow's declared tasks when it has any; otherwise it asks
// the model to decompose the input into tasks.
func (p *LLMPlanner) Plan(ctx context.Context, flow *workflow.Flow, input string) ([]types.Task, error) {
	if flow != nil && flow.Len() > 0 {
		return flow.Tasks(), nil
	}
	return p.GeneratePlan(ctx, input)
}

type planDocument struct {
	Tasks []planTask `json:"tasks"`
}

type planTask struct {
	ID           string         `json:"id"`
	Capability   string         `json:"capability"`
	Args         map[string]any `json:"args"`
	Dependencies []string       `json:"dependencies"`
}

// GeneratePlan asks the model to decompose a goal into tasks. Every failure
// mode returns a PLANNER_FAULT error so the caller can fall back.
func (p *LLMPlanner) GeneratePlan(ctx context.Context, goal string) ([]types.Task, error) {
	prompt := plannerSystemPrompt + "\n\nGoal: " + goal
	raw, err := p.client.Generate(ctx, prompt)
	if err != nil {
		return nil, types.NewError(types.ErrPlannerFault, "plan generation failed").WithCause(err)
	}

	doc, err := parsePlanJSON(raw)
	if err != nil {
		return nil, types.NewError(types.ErrPlannerFault, "plan output is not valid JSON").WithCause(err)
	}
	if len(doc.Tasks) == 0 {
		return nil, types.NewError(types.ErrPlannerFault, "plan contains no tasks")
	}

	tasks := make([]types.Task, 0, len(doc.Tasks))
	for _, item := range doc.Tasks {
		task, err := types.NewTask(item.ID, item.Capability, item.Args, item.Dependencies...)
		if err != nil {
			return nil, types.NewError(types.ErrPlannerFault, "plan contains an invalid task").WithCause(err)
		}
		tasks = append(tasks, task)
	}

	p.logger.Info("plan generated", zap.Int("tasks", len(tasks)))
	return tasks, nil
}

// parsePlanJSON extracts the JSON object embedded in model prose: the slice
// between the first '{' and the last '}'.
func parsePlanJSON(text string) (planDocument, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	var doc planDocument
	if start < 0 || end < start {
		return doc, json.Unmarshal([]byte(text), &doc)
	}
	err := json.Unmarshal([]byte(text[start:end+1]), &doc)
	return doc, err
}

// FallbackPlan is the minimal deterministic two-task plan used when plan
// generation fails: analyze the goal, then summarize the analysis. It
// guarantees the controller never aborts solely because planning failed.
func FallbackPlan(goal string) []types.Task {
	return []types.Task{
		types.MustTask("analysis", "llm_tool", map[string]any{"query": "Analyze: " + goal}),
		types.MustTask("summary", "report_tool", nil, "analysis"),
	}
}
