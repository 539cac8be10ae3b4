package executors

import (
	"context"
	"encoding/json"

	"github.com/traego/notion-mcp/pkg/protocol"
)

// MethodHandler handles a family of JSON-RPC methods
type MethodHandler interface {
	CanHandleMethod(method string) bool
	HandleMethod(ctx context.Context, method string, req *protocol.Request) (interface{}, error)
}

// ParseParams decodes the request params into v.
// Absent params leave v untouched.
func ParseParams(req *protocol.Request, v interface{}) error {
	if len(req.Params) == 0 || string(req.Params) == "null" {
		return nil
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		return protocol.NewInvalidParamsError(err.Error(), req.ID)
	}
	return nil
}
