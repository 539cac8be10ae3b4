package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"disorder.dev/shandler"
	"github.com/traego/notion-mcp/pkg/utils"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var levelNames = map[slog.Level]string{
	shandler.LevelTrace: "TRACE",
	shandler.LevelFatal: "FATAL",
}

// ParseLevel maps a level name to a slog level, including shandler's trace and fatal
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return shandler.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return shandler.LevelFatal, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewHandler builds a text or JSON handler that also stamps trace and request ids from the context
func NewHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					if name, ok := levelNames[lvl]; ok {
						a.Value = slog.StringValue(name)
					}
				}
			}
			return a
		},
	}

	var inner slog.Handler
	switch format {
	case "", FormatText:
		inner = slog.NewTextHandler(w, opts)
	case FormatJSON:
		inner = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &contextHandler{Handler: inner}, nil
}

// Setup installs a handler writing to w as the slog default.
// stdout carries the protocol, so callers pass os.Stderr.
func Setup(w io.Writer, levelName, format string) (*Slog, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(w, level, format)
	if err != nil {
		return nil, err
	}

	l := NewSlog(handler)
	slog.SetDefault(l.logger)
	return l, nil
}

// contextHandler adds trace_id and request_id attributes found on the context
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceId := utils.GetTraceId(ctx); traceId != "" {
		r.AddAttrs(slog.String("trace_id", traceId))
	}
	if requestId := utils.GetRequestId(ctx); requestId != "" {
		r.AddAttrs(slog.String("request_id", requestId))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// Slog wraps a slog logger with the trace and fatal levels
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlog creates an instance of Slog
func NewSlog(handler slog.Handler) *Slog {
	levels := []slog.Level{shandler.LevelFatal, slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug, shandler.LevelTrace}
	l := levels[len(levels)-1]

	for i, level := range levels {
		if !handler.Enabled(context.TODO(), level) {
			if i > 0 {
				l = levels[i-1]
			} else {
				l = level
			}
			break
		}
	}

	return &Slog{
		logger: slog.New(handler),
		level:  l,
	}
}

// Logger returns the wrapped slog logger
func (l *Slog) Logger() *slog.Logger {
	return l.logger
}

// Level returns the lowest level that is enabled
func (l *Slog) Level() slog.Level {
	return l.level
}

// Trace logs at shandler's trace level, below debug
func (l *Slog) Trace(msg string, args ...any) {
	l.logger.Log(context.TODO(), shandler.LevelTrace, msg, args...)
}

// Fatal logs at fatal level and exits with status 1
func (l *Slog) Fatal(msg string, args ...any) {
	l.logger.Log(context.TODO(), shandler.LevelFatal, msg, args...)
	os.Exit(1)
}

// Trace logs msg at trace level on the default logger
func Trace(ctx context.Context, msg string, args ...any) {
	slog.Default().Log(ctx, shandler.LevelTrace, msg, args...)
}
