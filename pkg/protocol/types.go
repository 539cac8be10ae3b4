package protocol

import "encoding/json"

// JSONRPCVersion is the only JSON-RPC version spoken on the wire
const JSONRPCVersion = "2.0"

// Request represents an inbound JSON-RPC request or notification.
// ID and Params are kept raw so the id can be echoed back byte for byte.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and so expects no response
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response represents an outbound JSON-RPC response.
// A nil ID is encoded as null, which is what parse errors require.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// NewResponse creates a success response for the given request id
func NewResponse(id json.RawMessage, result interface{}) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// ClientInfo represents information about the client
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo represents information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams represents the parameters for an initialize request
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ClientInfo         `json:"clientInfo"`
}

// InitializeResult represents the result of an initialize request
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	Instructions    string             `json:"instructions,omitempty"`
}

// ClientCapabilities represents the capabilities of the client
type ClientCapabilities struct {
	Roots        *RootsClientCapability `json:"roots,omitempty"`
	Sampling     map[string]interface{} `json:"sampling,omitempty"`
	Experimental map[string]interface{} `json:"experimental,omitempty"`
}

// RootsClientCapability represents the roots capability of the client
type RootsClientCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerCapabilities represents the capabilities of the server
type ServerCapabilities struct {
	Tools        *ToolsServerCapability   `json:"tools,omitempty"`
	Logging      *LoggingServerCapability `json:"logging,omitempty"`
	Experimental map[string]interface{}   `json:"experimental,omitempty"`
}

// ToolsServerCapability represents the tools capability of the server
type ToolsServerCapability struct {
	ListChanged bool `json:"listChanged"`
}

// LoggingServerCapability represents the logging capability of the server
type LoggingServerCapability struct{}
