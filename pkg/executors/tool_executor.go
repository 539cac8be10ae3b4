package executors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/traego/notion-mcp/pkg/protocol"
	"github.com/traego/notion-mcp/pkg/resources"
	"github.com/traego/notion-mcp/pkg/utils"
)

// ToolCallRequest is one decoded tools/call invocation
type ToolCallRequest struct {
	Name      string
	Arguments map[string]interface{}
	RequestID json.RawMessage
}

type ToolExecutor struct {
	registry resources.ToolRegistry
}

func NewToolExecutor(registry resources.ToolRegistry) *ToolExecutor {
	return &ToolExecutor{registry: registry}
}

// CanHandleMethod checks if the method is related to tools
func (t *ToolExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "tools/list", "tools/get", "tools/call":
		return true
	default:
		return false
	}
}

// HandleMethod handles tool-related methods
func (t *ToolExecutor) HandleMethod(ctx context.Context, method string, req *protocol.Request) (interface{}, error) {
	switch method {
	case "tools/list":
		return t.handleListTools(ctx, req)
	case "tools/get":
		return t.handleGetTool(ctx, req)
	case "tools/call":
		return t.handleCallTool(ctx, req)
	default:
		return nil, protocol.NewMethodNotFoundError(method, req.ID)
	}
}

// handleListTools handles a request to list tools
func (t *ToolExecutor) handleListTools(ctx context.Context, req *protocol.Request) (resources.ToolListResult, error) {
	var params protocol.ListToolsParams
	if err := ParseParams(req, &params); err != nil {
		return resources.ToolListResult{}, err
	}

	return t.registry.ListTools(ctx, resources.ToolListOptions{Cursor: params.Cursor}), nil
}

// handleGetTool handles a request to get a specific tool
func (t *ToolExecutor) handleGetTool(ctx context.Context, req *protocol.Request) (resources.Tool, error) {
	var params protocol.GetToolParams
	if err := ParseParams(req, &params); err != nil {
		return resources.Tool{}, err
	}
	if params.Name == "" {
		return resources.Tool{}, protocol.NewInvalidParamsError("tool name is required", req.ID)
	}

	tool, found := t.registry.GetTool(ctx, params.Name)
	if !found {
		return resources.Tool{}, protocol.NewInvalidParamsError(
			fmt.Sprintf("%v: %s", resources.ErrToolNotFound, params.Name), req.ID)
	}

	return tool, nil
}

// handleCallTool decodes a tools/call request and dispatches it
func (t *ToolExecutor) handleCallTool(ctx context.Context, req *protocol.Request) (*protocol.CallToolResult, error) {
	var params protocol.CallToolParams
	if err := ParseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, protocol.NewInvalidParamsError("tool name is required", req.ID)
	}

	return t.CallTool(ctx, ToolCallRequest{
		Name:      params.Name,
		Arguments: params.Arguments,
		RequestID: req.ID,
	}), nil
}

// CallTool runs one invocation through lookup, validation and the handler.
// It always returns a result; every failure is folded into the envelope.
func (t *ToolExecutor) CallTool(ctx context.Context, req ToolCallRequest) *protocol.CallToolResult {
	ctx, _ = utils.EnsureTraceId(ctx)
	if len(req.RequestID) > 0 && utils.GetRequestId(ctx) == "" {
		ctx = utils.SetRequestId(ctx, string(req.RequestID))
	}
	log := slog.With("tool", req.Name)

	rt, ok := t.registry.Lookup(ctx, req.Name)
	if !ok {
		log.WarnContext(ctx, "Unknown tool requested")
		return ErrorResult(fmt.Sprintf("Unknown tool: %s", req.Name))
	}

	args := req.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}

	params, err := rt.Validate(args)
	if err != nil {
		log.InfoContext(ctx, "Rejected tool arguments", "error", err)
		return ErrorResult(fmt.Sprintf("Invalid arguments for tool %s: %v", req.Name, err))
	}

	started := time.Now()
	payload, err := invoke(ctx, rt, params)
	elapsed := time.Since(started)

	if err != nil {
		var parseErr *resources.ArgumentParseError
		if errors.As(err, &parseErr) {
			log.InfoContext(ctx, "Rejected embedded JSON argument", "param", parseErr.Param, "error", parseErr.Err)
			return ErrorResult(parseErr.Error())
		}

		log.ErrorContext(ctx, "Tool call failed", "error", err, "duration", elapsed)
		return ErrorResult("Error " + err.Error())
	}

	result, err := JSONResult(payload)
	if err != nil {
		log.ErrorContext(ctx, "Failed to format tool result", "error", err)
		return ErrorResult(fmt.Sprintf("Error formatting result of %s: %v", req.Name, err))
	}

	log.DebugContext(ctx, "Tool call completed", "duration", elapsed)
	return result
}

// invoke runs the handler, turning a panic into an error
func invoke(ctx context.Context, rt *resources.RegisteredTool, params resources.ValidatedParams) (payload interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Tool handler panicked", "tool", rt.Tool.Name, "panic", r, "stack", string(debug.Stack()))
			payload = nil
			err = fmt.Errorf("running %s: internal error: %v", rt.Tool.Name, r)
		}
	}()
	return rt.Handler(ctx, params)
}

var _ MethodHandler = (*ToolExecutor)(nil)
