package resources

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrToolExists     = errors.New("tool already registered")
	ErrInvalidParams  = errors.New("invalid parameters")
	ErrRegistrySealed = errors.New("tool registry is sealed")
)

// Parameter types understood by the validator
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// InputSchema represents the schema for tool inputs
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty represents a property in an input schema
type SchemaProperty struct {
	Type        string                    `json:"type"`
	Description string                    `json:"description,omitempty"`
	Default     interface{}               `json:"default,omitempty"`
	Enum        []interface{}             `json:"enum,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
}

// IsRequired reports whether name is listed in the schema's required set
func (s InputSchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Tool represents an MCP tool definition
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ToolHandler is a function that handles a tool invocation.
// params has already been validated against the tool's schema and belongs to
// this invocation alone.
type ToolHandler func(ctx context.Context, params ValidatedParams) (interface{}, error)

// ToolListOptions provides pagination options for listing tools
type ToolListOptions struct {
	Cursor string // Cursor for pagination
}

// ToolListResult represents a paginated list of tools
type ToolListResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"` // Cursor for the next page, empty if no more pages
}

// ToolRegistry defines the interface for a tool registry
type ToolRegistry interface {
	// GetTool returns a tool by name
	GetTool(ctx context.Context, name string) (Tool, bool)

	// ListTools returns a paginated list of tools
	ListTools(ctx context.Context, opts ToolListOptions) ToolListResult

	// Lookup returns the full registration (definition, handler, compiled schema)
	Lookup(ctx context.Context, name string) (*RegisteredTool, bool)
}

// ValidationError reports a parameter that failed schema validation
type ValidationError struct {
	Param  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter %q %s", e.Param, e.Reason)
}

// Unwrap exposes the underlying schema error, if any
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrInvalidParams
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParams
}

// ArgumentParseError is returned by handlers when a string argument that
// carries embedded JSON (a filter or sort expression) cannot be decoded.
type ArgumentParseError struct {
	Param string
	Err   error
}

// Error implements the error interface
func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("Error parsing %s JSON: %v", e.Param, e.Err)
}

// Unwrap returns the decoder error
func (e *ArgumentParseError) Unwrap() error {
	return e.Err
}

// Is makes every ArgumentParseError match ErrInvalidParams
func (e *ArgumentParseError) Is(target error) bool {
	return target == ErrInvalidParams
}
