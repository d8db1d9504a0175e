// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector 指标收集器。所有方法对 nil 接收者安全，
// 未接线指标的组件可直接传入 nil。
type Collector struct {
	// 工具调用指标
	toolInvocationsTotal *prometheus.CounterVec
	toolLatency          *prometheus.HistogramVec

	// 工作流指标
	workflowExecutionsTotal *prometheus.CounterVec
	workflowDuration        *prometheus.HistogramVec

	// 审计存储指标
	auditWritesTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器。reg 为 nil 时使用默认注册表。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.toolInvocationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	c.toolLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_latency_seconds",
			Help:      "Tool invocation latency in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool"},
	)

	c.workflowExecutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_executions_total",
			Help:      "Total number of workflow executions",
		},
		[]string{"flow", "mode", "status"},
	)

	c.workflowDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_duration_seconds",
			Help:      "Workflow execution duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"flow"},
	)

	c.auditWritesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Total number of durable audit record writes",
		},
		[]string{"status"},
	)

	return c
}

// RecordToolInvocation 记录一次工具调用。
func (c *Collector) RecordToolInvocation(tool string, success bool, latency time.Duration) {
	if c == nil {
		return
	}
	c.toolInvocationsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
	c.toolLatency.WithLabelValues(tool).Observe(latency.Seconds())
}

// RecordWorkflowExecution 记录一次工作流执行。
func (c *Collector) RecordWorkflowExecution(flow, mode string, success bool, duration time.Duration) {
	if c == nil {
		return
	}
	c.workflowExecutionsTotal.WithLabelValues(flow, mode, statusLabel(success)).Inc()
	c.workflowDuration.WithLabelValues(flow).Observe(duration.Seconds())
}

// RecordAuditWrite 记录一次审计持久化写入。
func (c *Collector) RecordAuditWrite(err error) {
	if c == nil {
		return
	}
	c.auditWritesTotal.WithLabelValues(statusLabel(err == nil)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
