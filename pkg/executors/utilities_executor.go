package executors

import (
	"context"
	"log/slog"
	"strings"

	"github.com/traego/notion-mcp/pkg/protocol"
)

// UtilitiesExecutor handles lifecycle and utility methods in the MCP protocol
type UtilitiesExecutor struct {
	serverInfo   protocol.ServerInfo
	capabilities protocol.ServerCapabilities
	instructions string
}

// NewUtilitiesExecutor creates a new utilities executor
func NewUtilitiesExecutor(serverInfo protocol.ServerInfo, capabilities protocol.ServerCapabilities, instructions string) *UtilitiesExecutor {
	return &UtilitiesExecutor{
		serverInfo:   serverInfo,
		capabilities: capabilities,
		instructions: instructions,
	}
}

// CanHandleMethod checks if the method is a utility or lifecycle method
func (u *UtilitiesExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "ping", "initialize":
		return true
	default:
		return strings.HasPrefix(method, "notifications/")
	}
}

// HandleMethod handles utility methods
func (u *UtilitiesExecutor) HandleMethod(ctx context.Context, method string, req *protocol.Request) (interface{}, error) {
	switch {
	case method == "ping":
		return map[string]interface{}{}, nil
	case method == "initialize":
		return u.handleInitialize(req)
	case strings.HasPrefix(method, "notifications/"):
		slog.Debug("Received notification", "method", method)
		return nil, nil
	default:
		return nil, protocol.NewMethodNotFoundError(method, req.ID)
	}
}

func (u *UtilitiesExecutor) handleInitialize(req *protocol.Request) (protocol.InitializeResult, error) {
	var params protocol.InitializeParams
	if err := ParseParams(req, &params); err != nil {
		return protocol.InitializeResult{}, err
	}

	version := protocol.NegotiateVersion(params.ProtocolVersion)
	slog.Info("Client initialized",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"requested_protocol", params.ProtocolVersion,
		"protocol", version,
	)

	return protocol.InitializeResult{
		ProtocolVersion: string(version),
		ServerInfo:      u.serverInfo,
		Capabilities:    u.capabilities,
		Instructions:    u.instructions,
	}, nil
}

var _ MethodHandler = (*UtilitiesExecutor)(nil)
