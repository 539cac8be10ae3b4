package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/traego/notion-mcp/pkg/config"
	"github.com/traego/notion-mcp/pkg/executors"
	"github.com/traego/notion-mcp/pkg/notion"
	"github.com/traego/notion-mcp/pkg/protocol"
	"github.com/traego/notion-mcp/pkg/resources"
	"github.com/traego/notion-mcp/pkg/tools"
	"github.com/traego/notion-mcp/pkg/transport"
)

// McpServer serves the Notion tools over stdio
type McpServer struct {
	config    *config.ServerConfig
	registry  *resources.StaticToolRegistry
	notion    tools.NotionAPI
	executors *executors.Executors

	in  io.Reader
	out io.Writer
}

// McpServerOption represents an option for the MCP server
type McpServerOption func(*McpServer)

// WithNotionClient replaces the client built from the config
func WithNotionClient(api tools.NotionAPI) McpServerOption {
	return func(s *McpServer) {
		s.notion = api
	}
}

// WithToolRegistry sets the tool registry. The Notion tools are added to it
// and it is sealed before serving.
func WithToolRegistry(registry *resources.StaticToolRegistry) McpServerOption {
	return func(s *McpServer) {
		s.registry = registry
	}
}

// WithIO sets the streams the transport reads from and writes to (stdin/stdout by default)
func WithIO(in io.Reader, out io.Writer) McpServerOption {
	return func(s *McpServer) {
		s.in = in
		s.out = out
	}
}

// NewMcpServer creates a new MCP server. All tools are registered here;
// the registry is read-only once this returns.
func NewMcpServer(cfg *config.ServerConfig, options ...McpServerOption) (*McpServer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &McpServer{
		config: cfg,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.registry == nil {
		s.registry = resources.NewStaticToolRegistry()
	}
	if s.notion == nil {
		s.notion = notion.NewClient(cfg.Notion.APIKey,
			notion.WithBaseURL(cfg.Notion.BaseURL),
			notion.WithVersion(cfg.Notion.Version),
			notion.WithTimeout(cfg.Notion.RequestTimeout),
		)
	}

	if err := tools.RegisterAll(s.registry, s.notion); err != nil {
		return nil, err
	}
	s.registry.Seal()

	utilities := executors.NewUtilitiesExecutor(
		protocol.ServerInfo{Name: cfg.ServerInfo.Name, Version: cfg.ServerInfo.Version},
		cfg.ServerCapabilities,
		cfg.Instructions,
	)
	s.executors = executors.DefaultExecutors(executors.NewToolExecutor(s.registry), utilities)

	return s, nil
}

// Registry returns the sealed tool registry
func (s *McpServer) Registry() resources.ToolRegistry {
	return s.registry
}

// Run serves until the input closes (nil) or ctx is done (ctx.Err()).
// In-flight requests finish before Run returns.
func (s *McpServer) Run(ctx context.Context) error {
	slog.Info("Starting MCP server",
		"name", s.config.ServerInfo.Name,
		"version", s.config.ServerInfo.Version,
		"tools", s.registry.Names(),
	)

	t := transport.NewStdioTransport(s.in, s.out, s.executors,
		transport.WithMaxMessageSize(s.config.MaxMessageSize),
	)
	err := t.Serve(ctx)

	slog.Info("MCP server stopped")
	return err
}
