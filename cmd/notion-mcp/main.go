package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/traego/notion-mcp/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		logger.NewSlog(slog.Default().Handler()).Fatal("notion-mcp failed", "error", err)
	}
}

func init() {
	// Until flags are parsed, log to stderr; stdout belongs to the protocol
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}
