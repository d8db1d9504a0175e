package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/taskflow/llm"
	"github.com/BaSui01/taskflow/types"
)

// Synthesizer turns the original input and all task results into the final
// report text. Used once per run, at the end.
type Synthesizer interface {
	Synthesize(ctx context.Context, input string, results []types.TaskResult) (string, error)
}

// LLMSynthesizer synthesizes the report with an LLM client.
type LLMSynthesizer struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMSynthesizer 创建基于 LLM 的报告合成器。
func NewLLMSynthesizer(client llm.Client, logger *zap.Logger) *LLMSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMSynthesizer{
		client: client,
		logger: logger.With(zap.String("component", "synthesizer")),
	}
}

// Synthesize builds a report prompt over every task outcome and asks the
// model for the final text.
func (s *LLMSynthesizer) Synthesize(ctx context.Context, input string, results []types.TaskResult) (string, error) {
	var b strings.Builder
	b.WriteString("Write a final report for the following request and task outcomes.\n")
	b.WriteString("Request: " + input + "\n\nTask outcomes:\n")
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(&b, "- %s: success, output: %v\n", r.TaskID, r.Output)
		} else {
			fmt.Fprintf(&b, "- %s: failed, error: %s\n", r.TaskID, r.Error)
		}
	}

	report, err := s.client.Generate(ctx, b.String())
	if err != nil {
		return "", types.NewError(types.ErrSynthesis, "final report synthesis failed").WithCause(err)
	}
	s.logger.Info("report synthesized", zap.Int("results", len(results)))
	return report, nil
}
