package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "Notion MCP Server", cfg.ServerInfo.Name)
	assert.Equal(t, "1.0.0", cfg.ServerInfo.Version)
	assert.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, 30*time.Second, cfg.Notion.RequestTimeout)
	assert.Empty(t, cfg.Notion.APIKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 10*1024*1024, cfg.MaxMessageSize)
	require.NotNil(t, cfg.ServerCapabilities.Tools)
	assert.False(t, cfg.ServerCapabilities.Tools.ListChanged)
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Notion.APIKey)
	assert.NoError(t, cfg.Validate())

	defaultCfg := DefaultConfig()
	assert.Equal(t, defaultCfg.ServerInfo, cfg.ServerInfo)
	assert.Equal(t, defaultCfg.Notion.BaseURL, cfg.Notion.BaseURL)
	assert.Equal(t, defaultCfg.ServerCapabilities, cfg.ServerCapabilities)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"missing key", func(c *ServerConfig) { c.Notion.APIKey = "" }, "NOTION_API_KEY is not set"},
		{"empty base url", func(c *ServerConfig) { c.Notion.BaseURL = "" }, "base URL"},
		{"zero timeout", func(c *ServerConfig) { c.Notion.RequestTimeout = 0 }, "timeout must be positive"},
		{"zero message size", func(c *ServerConfig) { c.MaxMessageSize = 0 }, "message size"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoader_Environment(t *testing.T) {
	loader := NewLoaderWith(afero.NewMemMapFs(), envMap(map[string]string{
		NotionAPIKeyEnvVar:            "secret_abc",
		NotionBaseURLEnvVar:           "http://localhost:9999/",
		NotionVersionEnvVar:           "2025-09-03",
		NotionRequestTimeoutSecEnvVar: "5",
		LogLevelEnvVar:                "DEBUG",
		LogFormatEnvVar:               "json",
	}))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", cfg.Notion.APIKey)
	assert.Equal(t, "http://localhost:9999", cfg.Notion.BaseURL)
	assert.Equal(t, "2025-09-03", cfg.Notion.Version)
	assert.Equal(t, 5*time.Second, cfg.Notion.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoader_APIKeyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/run/secrets/notion", []byte("secret_from_file\n"), 0o600))

	loader := NewLoaderWith(fs, envMap(map[string]string{
		NotionAPIKeyEnvVar + "_FILE": "/run/secrets/notion",
	}))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret_from_file", cfg.Notion.APIKey)
}

func TestLoader_APIKeyEnvWinsOverFile(t *testing.T) {
	loader := NewLoaderWith(afero.NewMemMapFs(), envMap(map[string]string{
		NotionAPIKeyEnvVar:           "from_env",
		NotionAPIKeyEnvVar + "_FILE": "/does/not/exist",
	}))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Notion.APIKey)
}

func TestLoader_MissingKeyFile(t *testing.T) {
	loader := NewLoaderWith(afero.NewMemMapFs(), envMap(map[string]string{
		NotionAPIKeyEnvVar + "_FILE": "/does/not/exist",
	}))

	_, err := loader.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTION_API_KEY_FILE")
}

func TestLoader_BadTimeout(t *testing.T) {
	loader := NewLoaderWith(afero.NewMemMapFs(), envMap(map[string]string{
		NotionRequestTimeoutSecEnvVar: "soon",
	}))

	_, err := loader.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), NotionRequestTimeoutSecEnvVar)
}

func TestLoader_YAMLFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/notion-mcp.yaml", []byte(`
server_info:
  name: Team Notion
notion:
  version: "2025-09-03"
  request_timeout: 12s
log:
  level: warn
instructions: Use search_notion first.
`), 0o644))

	loader := NewLoaderWith(fs, envMap(map[string]string{
		NotionAPIKeyEnvVar: "secret",
		LogLevelEnvVar:     "error",
	}))

	cfg, err := loader.Load("/etc/notion-mcp.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Team Notion", cfg.ServerInfo.Name)
	assert.Equal(t, "1.0.0", cfg.ServerInfo.Version, "unset keys keep their defaults")
	assert.Equal(t, "2025-09-03", cfg.Notion.Version)
	assert.Equal(t, 12*time.Second, cfg.Notion.RequestTimeout)
	assert.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level, "environment overrides the file")
	assert.Equal(t, "Use search_notion first.", cfg.Instructions)
	assert.NotNil(t, cfg.ServerCapabilities.Tools)
}

func TestLoader_MissingYAMLFile(t *testing.T) {
	loader := NewLoaderWith(afero.NewMemMapFs(), envMap(nil))

	_, err := loader.Load("/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoader_InvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("notion: [unclosed"), 0o644))

	_, err := NewLoaderWith(fs, envMap(nil)).Load("/bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
