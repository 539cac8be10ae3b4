package harness

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/traego/notion-mcp/pkg/protocol"
	"github.com/traego/notion-mcp/pkg/resources"
)

// Message is a response as seen by the client, with the result left raw
type Message struct {
	JSONRPC string                `json:"jsonrpc"`
	ID      json.RawMessage       `json:"id"`
	Result  json.RawMessage       `json:"result,omitempty"`
	Error   *protocol.ErrorObject `json:"error,omitempty"`
}

// RPCError is returned by Call when the server answers with a JSON-RPC error
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("JSON-RPC error: code=%d, message=%s", e.Code, e.Message)
}

// Pipes connects an MCP test client to a server's stdin and stdout
type Pipes struct {
	// ServerIn is what the server reads as stdin
	ServerIn io.Reader
	// ServerOut is what the server writes as stdout
	ServerOut io.WriteCloser

	clientOut *io.PipeWriter
	clientIn  *io.PipeReader
}

// NewPipes creates the two pipes between a client and a server
func NewPipes() *Pipes {
	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()
	return &Pipes{
		ServerIn:  serverIn,
		ServerOut: serverOut,
		clientOut: clientOut,
		clientIn:  clientIn,
	}
}

// Client returns a client speaking over these pipes
func (p *Pipes) Client(options ...MCPTestClientOption) *MCPTestClient {
	return NewMCPTestClient(p.clientIn, p.clientOut, options...)
}

// MCPTestClient is a newline-delimited JSON-RPC client for driving a stdio MCP server
type MCPTestClient struct {
	// Configuration
	timeout         time.Duration
	protocolVersion string

	out     io.WriteCloser
	writeMu sync.Mutex

	mu        sync.Mutex
	pending   map[string]chan Message
	unmatched []Message
	done      chan struct{}
}

// MCPTestClientOption represents an option for the MCP test client
type MCPTestClientOption func(*MCPTestClient)

// WithTimeout bounds how long Call waits for a response
func WithTimeout(timeout time.Duration) MCPTestClientOption {
	return func(c *MCPTestClient) {
		c.timeout = timeout
	}
}

// WithProtocolVersion sets the version requested by Initialize
func WithProtocolVersion(version string) MCPTestClientOption {
	return func(c *MCPTestClient) {
		c.protocolVersion = version
	}
}

// NewMCPTestClient creates a client reading responses from in and writing requests to out
func NewMCPTestClient(in io.Reader, out io.WriteCloser, options ...MCPTestClientOption) *MCPTestClient {
	client := &MCPTestClient{
		timeout:         5 * time.Second,
		protocolVersion: string(protocol.LatestProtocolVersion),
		out:             out,
		pending:         make(map[string]chan Message),
		done:            make(chan struct{}),
	}

	// Apply options
	for _, opt := range options {
		opt(client)
	}

	go client.readLoop(in)
	return client
}

// Initialize performs the initialize handshake and sends notifications/initialized
func (c *MCPTestClient) Initialize(ctx context.Context, clientInfo protocol.ClientInfo) (*protocol.InitializeResult, error) {
	var result protocol.InitializeResult
	err := c.CallInto(ctx, "initialize", protocol.InitializeParams{
		ProtocolVersion: c.protocolVersion,
		ClientInfo:      clientInfo,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	if err := c.Notify("notifications/initialized", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools fetches one page of tools
func (c *MCPTestClient) ListTools(ctx context.Context, cursor string) (*resources.ToolListResult, error) {
	var result resources.ToolListResult
	if err := c.CallInto(ctx, "tools/list", protocol.ListToolsParams{Cursor: cursor}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CallTool invokes a tool and returns its envelope
func (c *MCPTestClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	var result protocol.CallToolResult
	err := c.CallInto(ctx, "tools/call", protocol.CallToolParams{Name: name, Arguments: args}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CallInto sends a request and decodes its result into v
func (c *MCPTestClient) CallInto(ctx context.Context, method string, params interface{}, v interface{}) error {
	msg, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if msg.Error != nil {
		return &RPCError{Code: msg.Error.Code, Message: msg.Error.Message}
	}
	if err := json.Unmarshal(msg.Result, v); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// Call sends a request with a fresh id and waits for the matching response
func (c *MCPTestClient) Call(ctx context.Context, method string, params interface{}) (*Message, error) {
	id, err := json.Marshal("req-" + uuid.NewString())
	if err != nil {
		return nil, err
	}

	ch := make(chan Message, 1)
	c.mu.Lock()
	c.pending[string(id)] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, string(id))
		c.mu.Unlock()
	}()

	if err := c.send(protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  mustRaw(params),
	}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case msg := <-ch:
		return &msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("timed out waiting for %s response", method)
	case <-c.done:
		return nil, fmt.Errorf("connection closed while waiting for %s response", method)
	}
}

// Notify sends a notification; no response is expected
func (c *MCPTestClient) Notify(method string, params interface{}) error {
	return c.send(protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  method,
		Params:  mustRaw(params),
	})
}

// SendRaw writes line as-is, followed by a newline
func (c *MCPTestClient) SendRaw(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := io.WriteString(c.out, line+"\n")
	return err
}

// Unmatched returns responses whose id matched no pending call (parse errors, raw sends)
func (c *MCPTestClient) Unmatched() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.unmatched...)
}

// Done is closed when the server's output ends
func (c *MCPTestClient) Done() <-chan struct{} {
	return c.done
}

// Close closes the server's input, which makes it shut down
func (c *MCPTestClient) Close() error {
	return c.out.Close()
}

func (c *MCPTestClient) send(req protocol.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.SendRaw(string(data))
}

func (c *MCPTestClient) readLoop(in io.Reader) {
	defer close(c.done)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			slog.Error("Failed to parse server message", "error", err, "data", scanner.Text())
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[string(msg.ID)]
		if !ok {
			c.unmatched = append(c.unmatched, msg)
		}
		c.mu.Unlock()

		if ok {
			ch <- msg
		}
	}
}

func mustRaw(params interface{}) json.RawMessage {
	if params == nil {
		return nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Sprintf("harness: cannot marshal params: %v", err))
	}
	return data
}
