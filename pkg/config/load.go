package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	NotionAPIKeyEnvVar            = "NOTION_API_KEY"
	NotionBaseURLEnvVar           = "NOTION_BASE_URL"
	NotionVersionEnvVar           = "NOTION_VERSION"
	NotionRequestTimeoutSecEnvVar = "NOTION_REQUEST_TIMEOUT_SEC"
	LogLevelEnvVar                = "LOG_LEVEL"
	LogFormatEnvVar               = "LOG_FORMAT"

	fileSuffix = "_FILE"
)

// Loader builds a ServerConfig from defaults, an optional YAML file and the environment
type Loader struct {
	fs     afero.Fs
	getenv func(string) string
}

// NewLoader returns a Loader over the OS filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: afero.NewOsFs(), getenv: os.Getenv}
}

// NewLoaderWith returns a Loader over the given filesystem and env lookup
func NewLoaderWith(fs afero.Fs, getenv func(string) string) *Loader {
	return &Loader{fs: fs, getenv: getenv}
}

// Load returns defaults overlaid by path (when non-empty) and then by the environment.
// The result is not validated.
func (l *Loader) Load(path string) (*ServerConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := l.loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(cfg *ServerConfig, path string) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *ServerConfig) error {
	apiKey, err := l.getEnvOrFile(NotionAPIKeyEnvVar)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Notion.APIKey = apiKey
	}

	if v := l.getenv(NotionBaseURLEnvVar); v != "" {
		cfg.Notion.BaseURL = strings.TrimRight(v, "/")
	}
	if v := l.getenv(NotionVersionEnvVar); v != "" {
		cfg.Notion.Version = v
	}
	if v := l.getenv(NotionRequestTimeoutSecEnvVar); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q is not a whole number of seconds", NotionRequestTimeoutSecEnvVar, v)
		}
		cfg.Notion.RequestTimeout = time.Duration(secs) * time.Second
	}
	if v := l.getenv(LogLevelEnvVar); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := l.getenv(LogFormatEnvVar); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	return nil
}

// getEnvOrFile returns the value of envVar, or the trimmed contents of the
// file named by envVar_FILE when envVar itself is empty.
func (l *Loader) getEnvOrFile(envVar string) (string, error) {
	if val := l.getenv(envVar); val != "" {
		return val, nil
	}

	fileEnvVar := envVar + fileSuffix
	if filePath := l.getenv(fileEnvVar); filePath != "" {
		data, err := afero.ReadFile(l.fs, filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", fileEnvVar, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}
