// Package taskflow provides a top-level convenience entry point for wiring
// an orchestration controller with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/taskflow"
//
//	c, err := taskflow.New(
//	    taskflow.WithDatabase(db),
//	    taskflow.WithClient(client),
//	)
//	report, err := c.Execute(ctx, flow, "Research the AI market")
//
// Tools are registered on the controller's registry ahead of execution via
// [WithTools].
package taskflow

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BaSui01/taskflow/agent"
	"github.com/BaSui01/taskflow/internal/metrics"
	"github.com/BaSui01/taskflow/llm"
	"github.com/BaSui01/taskflow/memory"
	"github.com/BaSui01/taskflow/tools"
)

// Option configures the controller created by [New].
type Option func(*builder)

type builder struct {
	db        *gorm.DB
	client    llm.Client
	logger    *zap.Logger
	collector *metrics.Collector
	tools     []tools.Tool
}

// WithDatabase sets the GORM database backing the audit store. Required.
func WithDatabase(db *gorm.DB) Option {
	return func(b *builder) { b.db = db }
}

// WithClient sets the LLM client used by the planner and synthesizer.
// Required.
func WithClient(client llm.Client) Option {
	return func(b *builder) { b.client = client }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

// WithMetricsNamespace wires a Prometheus collector under the namespace.
func WithMetricsNamespace(namespace string) Option {
	return func(b *builder) { b.collector = metrics.NewCollector(namespace, nil, b.logger) }
}

// WithTools registers capabilities ahead of execution.
func WithTools(ts ...tools.Tool) Option {
	return func(b *builder) { b.tools = append(b.tools, ts...) }
}

// New creates an [agent.Controller] with minimal configuration. At minimum,
// a database and an LLM client must be supplied.
func New(opts ...Option) (*agent.Controller, error) {
	b := &builder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.db == nil {
		return nil, fmt.Errorf("taskflow: a database is required, use WithDatabase")
	}
	if b.client == nil {
		return nil, fmt.Errorf("taskflow: an LLM client is required, use WithClient")
	}

	store, err := memory.New(b.db, b.logger, b.collector)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(b.logger)
	for _, tool := range b.tools {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	invoker := tools.NewInvoker(registry, b.logger, b.collector)

	return agent.NewController(
		store,
		invoker,
		agent.NewLLMPlanner(b.client, b.logger),
		agent.NewLLMSynthesizer(b.client, b.logger),
		b.logger,
		b.collector,
	), nil
}
