package executors

import (
	"context"
	"log/slog"

	"github.com/traego/notion-mcp/pkg/protocol"
)

type Executors struct {
	Tools     MethodHandler
	Utilities MethodHandler
}

func DefaultExecutors(tools *ToolExecutor, utilities *UtilitiesExecutor) *Executors {
	return &Executors{
		Tools:     tools,
		Utilities: utilities,
	}
}

func (e *Executors) CanHandleMethod(method string) bool {
	if e.Tools != nil && e.Tools.CanHandleMethod(method) {
		return true
	} else if e.Utilities != nil && e.Utilities.CanHandleMethod(method) {
		return true
	}
	return false
}

func (e *Executors) HandleMethod(ctx context.Context, method string, req *protocol.Request) (interface{}, error) {
	if e.Tools != nil && e.Tools.CanHandleMethod(method) {
		return e.Tools.HandleMethod(ctx, method, req)
	}
	if e.Utilities != nil && e.Utilities.CanHandleMethod(method) {
		return e.Utilities.HandleMethod(ctx, method, req)
	}
	return nil, protocol.NewMethodNotFoundError(method, req.ID)
}

// HandleRequest turns one request into its response.
// Notifications yield nil: nothing is written back for them. A malformed
// message is never a notification; without an id it is answered with a null id.
func (e *Executors) HandleRequest(ctx context.Context, req *protocol.Request) *protocol.Response {
	if req.JSONRPC != protocol.JSONRPCVersion || req.Method == "" {
		slog.WarnContext(ctx, "Rejecting malformed request", "jsonrpc", req.JSONRPC, "method", req.Method)
		resp := protocol.NewInvalidRequestError("expected jsonrpc 2.0 with a method", req.ID).ToResponse()
		return &resp
	}

	result, err := e.HandleMethod(ctx, req.Method, req)
	if req.IsNotification() {
		if err != nil {
			slog.Warn("Notification handling failed", "method", req.Method, "error", err)
		}
		return nil
	}

	if err != nil {
		rpcErr, ok := protocol.IsJsonRpcError(err)
		if !ok {
			slog.Error("Method failed", "method", req.Method, "error", err)
			rpcErr = protocol.NewInternalError(err.Error(), req.ID)
		}
		if rpcErr.ID == nil {
			rpcErr.ID = req.ID
		}
		resp := rpcErr.ToResponse()
		return &resp
	}

	if result == nil {
		result = map[string]interface{}{}
	}
	resp := protocol.NewResponse(req.ID, result)
	return &resp
}

var _ MethodHandler = (*Executors)(nil)
