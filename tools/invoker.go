package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/taskflow/internal/metrics"
	"github.com/BaSui01/taskflow/types"
)

// Result is the outcome of one capability invocation, success or failure,
// always carrying the measured wall-clock latency.
type Result struct {
	Name    string          `json:"name"`
	Success bool            `json:"success"`
	Output  any             `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    types.ErrorCode `json:"code,omitempty"`
	Latency time.Duration   `json:"latency"`
}

// ToTaskResult converts the invocation result into the canonical TaskResult.
func (r Result) ToTaskResult(taskID string) types.TaskResult {
	return types.TaskResult{
		TaskID:  taskID,
		Success: r.Success,
		Output:  r.Output,
		Error:   r.Error,
		Elapsed: r.Latency,
	}
}

// UsageEntry is one line of the rolling usage history.
type UsageEntry struct {
	Tool      string
	Success   bool
	Latency   time.Duration
	Timestamp time.Time
}

// Benchmarks aggregates the usage history.
type Benchmarks struct {
	TotalCalls       int
	Failures         int
	AvgLatencyByTool map[string]time.Duration
}

// historyLimit caps the rolling usage history.
const historyLimit = 1024

// Invoker validates arguments against a tool's declared contract, invokes
// the handler, and measures latency. Handler faults never propagate past
// this boundary: a panicking or erroring handler produces a failed Result,
// which is what lets one task's failure be recorded without corrupting the
// orchestration loop.
type Invoker struct {
	registry *Registry
	logger   *zap.Logger
	metrics  *metrics.Collector

	mu      sync.Mutex
	history []UsageEntry
}

// NewInvoker 创建工具调用器。metrics 可为 nil。
func NewInvoker(registry *Registry, logger *zap.Logger, collector *metrics.Collector) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		registry: registry,
		logger:   logger.With(zap.String("component", "tool_invoker")),
		metrics:  collector,
	}
}

// Invoke runs a capability by name. Failure modes, in check order:
// unregistered name (CAPABILITY_NOT_FOUND), absent required arguments
// (MISSING_ARGUMENTS, named), handler error or panic (HANDLER_FAULT).
// Every invocation lands in the usage history either way.
func (inv *Invoker) Invoke(ctx context.Context, name string, args map[string]any) Result {
	start := time.Now()
	result := Result{Name: name}

	tool, ok := inv.registry.Get(name)
	if !ok {
		result.Code = types.ErrCapabilityNotFound
		result.Error = fmt.Sprintf("capability %s not found", name)
		result.Latency = time.Since(start)
		inv.logger.Error("capability not found", zap.String("name", name))
		inv.recordUsage(result)
		return result
	}

	if missing := missingArgs(tool, args); len(missing) > 0 {
		result.Code = types.ErrMissingArguments
		result.Error = fmt.Sprintf("missing required arguments: %s", strings.Join(missing, ", "))
		result.Latency = time.Since(start)
		inv.logger.Error("missing required arguments",
			zap.String("name", name),
			zap.Strings("missing", missing))
		inv.recordUsage(result)
		return result
	}

	output, err := inv.callHandler(ctx, tool, args)
	result.Latency = time.Since(start)
	if err != nil {
		result.Code = types.ErrHandlerFault
		result.Error = err.Error()
		inv.logger.Error("tool execution failed",
			zap.String("name", name),
			zap.Duration("latency", result.Latency),
			zap.Error(err))
	} else {
		result.Success = true
		result.Output = output
		inv.logger.Info("tool executed",
			zap.String("name", name),
			zap.Duration("latency", result.Latency))
	}

	inv.recordUsage(result)
	return result
}

// callHandler runs the handler with panic isolation.
func (inv *Invoker) callHandler(ctx context.Context, tool Tool, args map[string]any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return tool.Handler(ctx, args)
}

// recordUsage appends to the rolling history and the metrics ledger. This is
// a process-wide performance ledger, independent of the audit log.
func (inv *Invoker) recordUsage(result Result) {
	inv.mu.Lock()
	inv.history = append(inv.history, UsageEntry{
		Tool:      result.Name,
		Success:   result.Success,
		Latency:   result.Latency,
		Timestamp: time.Now(),
	})
	if len(inv.history) > historyLimit {
		inv.history = inv.history[len(inv.history)-historyLimit:]
	}
	inv.mu.Unlock()

	inv.metrics.RecordToolInvocation(result.Name, result.Success, result.Latency)
}

// UsageHistory returns a copy of the rolling usage history.
func (inv *Invoker) UsageHistory() []UsageEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]UsageEntry, len(inv.history))
	copy(out, inv.history)
	return out
}

// GetBenchmarks aggregates the usage history into per-tool average latency
// and overall counts.
func (inv *Invoker) GetBenchmarks() Benchmarks {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	bench := Benchmarks{AvgLatencyByTool: make(map[string]time.Duration)}
	totals := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, entry := range inv.history {
		bench.TotalCalls++
		if !entry.Success {
			bench.Failures++
		}
		totals[entry.Tool] += entry.Latency
		counts[entry.Tool]++
	}
	for _, tool := range sortedKeys(counts) {
		bench.AvgLatencyByTool[tool] = totals[tool] / time.Duration(counts[tool])
	}
	return bench
}

func missingArgs(tool Tool, args map[string]any) []string {
	var missing []string
	for _, key := range tool.RequiredArgs {
		if _, ok := args[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
