package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/traego/notion-mcp/internal/logger"
	"github.com/traego/notion-mcp/pkg/config"
	"github.com/traego/notion-mcp/pkg/server"
)

type rootOptions struct {
	envFile    string
	configFile string
	logLevel   string
	logFormat  string

	// Streams, swapped in tests
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notion-mcp",
		Short: "Serve Notion search and retrieval tools over MCP stdio",
		Long: "Runs a Model Context Protocol server on stdin/stdout exposing read-only Notion tools:\n" +
			"search_notion, get_notion_page, get_notion_database, query_notion_database,\n" +
			"get_notion_block and get_notion_block_children.\n\n" +
			"The integration token is read from " + config.NotionAPIKeyEnvVar + " (or a file named by " +
			config.NotionAPIKeyEnvVar + "_FILE).\n" +
			"A .env file in the working directory is loaded if present.\n" +
			"Logs are written to stderr.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "path to a .env file to load (default: ./.env when present)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		fmt.Sprintf("trace, debug, info, warn or error (overrides env var %s)", config.LogLevelEnvVar))
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "",
		fmt.Sprintf("text or json (overrides env var %s)", config.LogFormatEnvVar))

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func loadConfig(opts *rootOptions) (*config.ServerConfig, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.NewLoader().Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	cfg.ServerInfo.Version = version

	return cfg, nil
}

func runServer(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if _, err := logger.Setup(opts.stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	srv, err := server.NewMcpServer(cfg, server.WithIO(opts.stdin, opts.stdout))
	if err != nil {
		return err
	}

	err = srv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
