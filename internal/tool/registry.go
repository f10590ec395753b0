package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flemzord/fizz/internal/toolcall"
)

// Registry holds registered tools and dispatches executions by name.
// It is instance-based (not global) for better testability.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	r.tools[name] = t
	return nil
}

// Execute runs the named tool and returns its output.
// Unknown names fail with ErrToolNotFound.
func (r *Registry) Execute(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w '%s'", ErrToolNotFound, name)
	}
	return t.Execute(ctx)
}

// Infos returns name/description pairs for all registered tools, sorted by
// name, for building the model-facing usage instructions.
func (r *Registry) Infos() []toolcall.ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]toolcall.ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, toolcall.ToolInfo{
			Name:        t.Name(),
			Description: t.Description(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
