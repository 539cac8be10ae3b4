package config

import (
	"fmt"
	"time"

	"github.com/traego/notion-mcp/pkg/protocol"
)

// ServerConfig holds the configuration for the MCP server
type ServerConfig struct {
	// Server information reported by initialize
	ServerInfo ServerInfo `yaml:"server_info"`

	// Notion API access
	Notion NotionConfig `yaml:"notion"`

	// Logging
	Log LogConfig `yaml:"log"`

	// Largest single stdio message accepted, in bytes
	MaxMessageSize int `yaml:"max_message_size"`

	// Optional usage hint returned by initialize
	Instructions string `yaml:"instructions"`

	ServerCapabilities protocol.ServerCapabilities `yaml:"-"`
}

// ServerInfo holds information about the server
type ServerInfo struct {
	// Server name
	Name string `yaml:"name"`

	// Server version
	Version string `yaml:"version"`
}

// NotionConfig holds the Notion client configuration
type NotionConfig struct {
	// Integration token, only taken from NOTION_API_KEY or NOTION_API_KEY_FILE
	APIKey string `yaml:"-"`

	// API root
	BaseURL string `yaml:"base_url"`

	// Value of the Notion-Version header
	Version string `yaml:"version"`

	// Per-request timeout
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	// trace, debug, info, warn or error
	Level string `yaml:"level"`

	// text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		ServerInfo: ServerInfo{
			Name:    "Notion MCP Server",
			Version: "1.0.0",
		},
		Notion: NotionConfig{
			BaseURL:        "https://api.notion.com",
			Version:        "2022-06-28",
			RequestTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MaxMessageSize: 10 * 1024 * 1024,
		ServerCapabilities: protocol.ServerCapabilities{
			Tools: &protocol.ToolsServerCapability{ListChanged: false},
		},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *ServerConfig {
	config := DefaultConfig()
	config.Notion.APIKey = "secret_test"
	config.Notion.RequestTimeout = 5 * time.Second
	config.Log.Level = "debug"
	return config
}

// Validate reports the first setting that makes the server unusable
func (c *ServerConfig) Validate() error {
	if c.Notion.APIKey == "" {
		return fmt.Errorf("%s is not set (or %s)", NotionAPIKeyEnvVar, NotionAPIKeyEnvVar+fileSuffix)
	}
	if c.Notion.BaseURL == "" {
		return fmt.Errorf("notion base URL cannot be empty")
	}
	if c.Notion.RequestTimeout <= 0 {
		return fmt.Errorf("notion request timeout must be positive, got %s", c.Notion.RequestTimeout)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("max message size must be positive, got %d", c.MaxMessageSize)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
