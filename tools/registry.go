package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Type classifies a capability for reporting purposes.
type Type string

const (
	TypeWeb         Type = "web"
	TypeFile        Type = "file"
	TypeData        Type = "data"
	TypeMLInference Type = "ml_inference"
	TypeSystem      Type = "system"
)

// Handler is the function bound to a capability. It may return an error or
// panic; the invoker isolates both.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool describes a registered capability: a name, a contract (required
// argument keys), and the handler that fulfils it.
type Tool struct {
	Name         string
	Type         Type
	Description  string
	Handler      Handler
	RequiredArgs []string
	Metadata     map[string]any
}

// Registry holds the registered capabilities. Registration happens ahead of
// execution; lookups are concurrency-safe.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *zap.Logger
}

// NewRegistry 创建能力注册中心。
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger.With(zap.String("component", "tool_registry")),
	}
}

// Register adds a capability. Registering a duplicate name is an error.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	r.tools[tool.Name] = tool
	r.logger.Info("tool registered",
		zap.String("name", tool.Name),
		zap.String("type", string(tool.Type)))
	return nil
}

// Get retrieves a capability by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Has reports whether a capability is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
