// Package llm defines the prompt-in/text-out client boundary used by the
// planner and the synthesizer. Concrete model backends live behind this
// interface and are not part of the orchestration core.
package llm

import "context"

// Client is a minimal text-generation client.
type Client interface {
	// Generate produces a text completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
