package resources

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// listPageSize is the number of tools returned per tools/list page
const listPageSize = 20

// RegisteredTool is a tool definition together with its handler and compiled schema
type RegisteredTool struct {
	Tool    Tool
	Handler ToolHandler

	schema *compiledSchema
}

// Validate checks raw arguments against the tool's schema
func (t *RegisteredTool) Validate(raw map[string]interface{}) (ValidatedParams, error) {
	return t.schema.validate(raw)
}

// StaticToolRegistry is a registry that holds a fixed set of tools.
// Tools are registered during startup; Seal makes it read-only.
type StaticToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]*RegisteredTool
	sealed bool
}

// NewStaticToolRegistry creates a new static tool registry
func NewStaticToolRegistry() *StaticToolRegistry {
	return &StaticToolRegistry{
		tools: make(map[string]*RegisteredTool),
	}
}

// RegisterTool registers a tool with the registry
func (r *StaticToolRegistry) RegisterTool(tool Tool, handler ToolHandler) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}

	schema, err := compileSchema(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q has an invalid input schema: %w", tool.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, tool.Name)
	}

	// Check if a tool with this name already exists
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %q", ErrToolExists, tool.Name)
	}

	r.tools[tool.Name] = &RegisteredTool{
		Tool:    tool,
		Handler: handler,
		schema:  schema,
	}

	slog.Info("Registered tool", "name", tool.Name)
	return nil
}

// Seal stops further registrations. Called before the transport starts serving.
func (r *StaticToolRegistry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called
func (r *StaticToolRegistry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Len returns the number of registered tools
func (r *StaticToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns the registered tool names in sorted order
func (r *StaticToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *StaticToolRegistry) sortedNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTool returns a tool by name
func (r *StaticToolRegistry) GetTool(ctx context.Context, name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return Tool{}, false
	}
	return rt.Tool, true
}

// Lookup returns the registration for name
func (r *StaticToolRegistry) Lookup(ctx context.Context, name string) (*RegisteredTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	return rt, ok
}

// ListTools returns a paginated list of tools
func (r *StaticToolRegistry) ListTools(ctx context.Context, opts ToolListOptions) ToolListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Sort names for consistent pagination
	names := r.sortedNames()

	// Find the starting position based on cursor
	startPos := 0
	if opts.Cursor != "" {
		for i, name := range names {
			if name == opts.Cursor {
				startPos = i + 1 // Start after the cursor
				break
			}
		}
	}

	result := ToolListResult{Tools: []Tool{}}

	// No tools or cursor beyond the end
	if startPos >= len(names) {
		return result
	}

	endPos := startPos + listPageSize
	if endPos > len(names) {
		endPos = len(names)
	}

	result.Tools = make([]Tool, 0, endPos-startPos)
	for i := startPos; i < endPos; i++ {
		result.Tools = append(result.Tools, r.tools[names[i]].Tool)
	}

	// Set next cursor if there are more tools
	if endPos < len(names) {
		result.NextCursor = names[endPos-1]
	}

	return result
}

// Ensure StaticToolRegistry implements ToolRegistry
var _ ToolRegistry = (*StaticToolRegistry)(nil)
