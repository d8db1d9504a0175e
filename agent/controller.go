package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/taskflow/internal/metrics"
	"github.com/BaSui01/taskflow/memory"
	"github.com/BaSui01/taskflow/tools"
	"github.com/BaSui01/taskflow/types"
	"github.com/BaSui01/taskflow/workflow"
)

// Report is the structured outcome of one controller run. The run as a
// whole always completes and reports; per-step failures are visible in the
// audit trail, not here.
type Report struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Output    string `json:"output"`
}

// Controller orchestrates one flow execution end to end: it opens an audit
// session, plans, runs the matching strategy through the tool invoker, and
// closes the session with the synthesized report.
type Controller struct {
	id      string
	memory  *memory.Store
	tools   *tools.Invoker
	planner Planner
	synth   Synthesizer
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewController 创建编排控制器。metrics 可为 nil。
func NewController(store *memory.Store, invoker *tools.Invoker, planner Planner, synth Synthesizer, logger *zap.Logger, collector *metrics.Collector) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Controller{
		id:      id,
		memory:  store,
		tools:   invoker,
		planner: planner,
		synth:   synth,
		logger:  logger.With(zap.String("component", "controller"), zap.String("controller_id", id)),
		metrics: collector,
	}
}

// Execute drives a flow from initial input to a synthesized report.
//
// Task-level failures never make Execute fail: they are recorded and
// reflected in the report. The errors that do abort the run are an audit
// store I/O failure, a synthesis failure, and a circular or missing
// dependency in the flow (a flow-definition bug, returned with its own
// error code so callers can tell it apart from runtime trouble).
func (c *Controller) Execute(ctx context.Context, flow *workflow.Flow, initialInput string) (Report, error) {
	start := time.Now()
	flowName, mode := flowIdentity(flow)

	sessionID, err := c.memory.OpenSession(ctx, initialInput)
	if err != nil {
		return Report{}, err
	}
	c.logger.Info("execution started",
		zap.String("session_id", sessionID),
		zap.String("flow", flowName),
		zap.String("mode", string(mode)))

	plan, err := c.planner.Plan(ctx, flow, initialInput)
	if err != nil {
		// Recovered internally: the run proceeds on the fallback plan.
		c.logger.Warn("planner fault, using fallback plan",
			zap.String("session_id", sessionID),
			zap.Error(err))
		plan = FallbackPlan(initialInput)
	}

	var auditErr error
	exec := func(ctx context.Context, task types.Task, args map[string]any) types.TaskResult {
		if auditErr != nil {
			// The durable trail is already broken: no further tool may run.
			return types.TaskResult{TaskID: task.ID, Error: auditErr.Error()}
		}

		merged := withSessionContext(c.memory.ContextFor(sessionID), args)
		result := c.tools.Invoke(ctx, task.Capability, merged)

		status := memory.StatusCompleted
		if !result.Success {
			status = memory.StatusFailed
		}
		if _, err := c.memory.RecordStep(ctx, sessionID, task.ID, task.Capability, status, result.Output, result.Error, nil); err != nil {
			auditErr = err
			return types.TaskResult{TaskID: task.ID, Error: err.Error()}
		}
		return result.ToTaskResult(task.ID)
	}

	strategy := workflow.ForMode(mode)
	results, runErr := strategy.Run(ctx, plan, exec, flowContext(flow))
	if auditErr != nil {
		c.metrics.RecordWorkflowExecution(flowName, string(mode), false, time.Since(start))
		return Report{SessionID: sessionID}, auditErr
	}
	if runErr != nil {
		var fault *types.Error
		if errors.As(runErr, &fault) && fault.Code == types.ErrCircularDependency {
			if _, err := c.memory.RecordStep(ctx, sessionID, "flow", "resolve_dependencies", memory.StatusFailed, nil, fault.Message, nil); err != nil {
				return Report{}, err
			}
		}
		c.metrics.RecordWorkflowExecution(flowName, string(mode), false, time.Since(start))
		return Report{SessionID: sessionID}, runErr
	}

	output, err := c.synth.Synthesize(ctx, initialInput, results)
	if err != nil {
		c.metrics.RecordWorkflowExecution(flowName, string(mode), false, time.Since(start))
		return Report{SessionID: sessionID}, err
	}

	if err := c.memory.CloseSession(ctx, sessionID, output); err != nil {
		return Report{}, err
	}

	c.metrics.RecordWorkflowExecution(flowName, string(mode), allSucceeded(results), time.Since(start))
	c.logger.Info("execution completed",
		zap.String("session_id", sessionID),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	return Report{SessionID: sessionID, Status: "completed", Output: output}, nil
}

// ID returns the controller's unique id.
func (c *Controller) ID() string {
	return c.id
}

func flowIdentity(flow *workflow.Flow) (string, types.ExecutionMode) {
	if flow == nil {
		return "adhoc", types.ModeSequential
	}
	return flow.Name(), flow.Mode()
}

func flowContext(flow *workflow.Flow) map[string]any {
	if flow == nil {
		return map[string]any{}
	}
	return flow.ContextSnapshot()
}

// withSessionContext merges the audit store's per-session context under the
// task's arguments. Strategy-merged arguments win on collision.
func withSessionContext(sessionContext, args map[string]any) map[string]any {
	merged := make(map[string]any, len(sessionContext)+len(args))
	for k, v := range sessionContext {
		merged[k] = v
	}
	for k, v := range args {
		merged[k] = v
	}
	return merged
}

func allSucceeded(results []types.TaskResult) bool {
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}
