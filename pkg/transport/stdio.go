package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/traego/notion-mcp/internal/logger"
	"github.com/traego/notion-mcp/pkg/protocol"
	"github.com/traego/notion-mcp/pkg/utils"
)

// DefaultMaxMessageSize bounds a single newline-delimited message
const DefaultMaxMessageSize = 10 * 1024 * 1024

// RequestHandler turns a decoded request into a response.
// A nil response means nothing is written (notifications).
type RequestHandler interface {
	HandleRequest(ctx context.Context, req *protocol.Request) *protocol.Response
}

// StdioTransport speaks newline-delimited JSON-RPC over a reader/writer pair.
// Every message is handled in its own goroutine; responses are written whole,
// one per line, in completion order.
type StdioTransport struct {
	in      io.Reader
	out     io.Writer
	handler RequestHandler
	maxSize int

	writeMu  sync.Mutex
	inFlight sync.WaitGroup
}

// Option configures a StdioTransport
type Option func(*StdioTransport)

// WithMaxMessageSize overrides DefaultMaxMessageSize
func WithMaxMessageSize(n int) Option {
	return func(t *StdioTransport) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

// NewStdioTransport creates a transport reading requests from in and writing responses to out
func NewStdioTransport(in io.Reader, out io.Writer, handler RequestHandler, opts ...Option) *StdioTransport {
	t := &StdioTransport{
		in:      in,
		out:     out,
		handler: handler,
		maxSize: DefaultMaxMessageSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type readResult struct {
	line    []byte
	tooLong bool
	err     error
}

// Serve reads until EOF or ctx is done. In-flight requests are always
// allowed to finish before Serve returns. EOF yields nil.
func (t *StdioTransport) Serve(ctx context.Context) error {
	lines := make(chan readResult)
	stop := make(chan struct{})
	defer close(stop)

	go t.readLines(lines, stop)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Transport stopping", "reason", ctx.Err())
			t.inFlight.Wait()
			return ctx.Err()

		case r := <-lines:
			if r.err != nil {
				t.inFlight.Wait()
				if errors.Is(r.err, io.EOF) {
					slog.Info("Input closed, transport stopping")
					return nil
				}
				return fmt.Errorf("reading input: %w", r.err)
			}

			if r.tooLong {
				slog.Warn("Discarded oversized message", "max_size", t.maxSize)
				t.write(protocol.NewInvalidRequestError(
					fmt.Sprintf("message exceeds %d bytes", t.maxSize), nil).ToResponse())
				continue
			}

			t.inFlight.Add(1)
			go func(line []byte) {
				defer t.inFlight.Done()
				t.handleMessage(ctx, line)
			}(r.line)
		}
	}
}

func (t *StdioTransport) readLines(lines chan<- readResult, stop <-chan struct{}) {
	reader := bufio.NewReaderSize(t.in, 64*1024)

	send := func(r readResult) bool {
		select {
		case lines <- r:
			return true
		case <-stop:
			return false
		}
	}

	for {
		line, tooLong, err := readLine(reader, t.maxSize)
		line = bytes.TrimSpace(line)
		switch {
		case tooLong:
			if !send(readResult{tooLong: true}) {
				return
			}
		case len(line) > 0:
			if !send(readResult{line: line}) {
				return
			}
		}

		if err != nil {
			send(readResult{err: err})
			return
		}
	}
}

// readLine returns the next newline-terminated line. Once a line grows past
// limit bytes the rest of it is skipped and the second result is true.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				tooLong = true
				line = nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

func (t *StdioTransport) handleMessage(ctx context.Context, line []byte) {
	if !json.Valid(line) {
		slog.Warn("Received malformed JSON")
		t.write(protocol.NewParseError("invalid JSON", nil).ToResponse())
		return
	}

	if line[0] == '[' {
		t.handleBatch(ctx, line)
		return
	}

	if resp := t.dispatch(ctx, line); resp != nil {
		t.write(*resp)
	}
}

// handleBatch answers a JSON-RPC batch with a single array response
func (t *StdioTransport) handleBatch(ctx context.Context, line []byte) {
	var items []json.RawMessage
	if err := json.Unmarshal(line, &items); err != nil || len(items) == 0 {
		t.write(protocol.NewInvalidRequestError("empty or malformed batch", nil).ToResponse())
		return
	}

	responses := make([]*protocol.Response, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item json.RawMessage) {
			defer wg.Done()
			responses[i] = t.dispatch(ctx, item)
		}(i, item)
	}
	wg.Wait()

	out := make([]protocol.Response, 0, len(responses))
	for _, resp := range responses {
		if resp != nil {
			out = append(out, *resp)
		}
	}
	if len(out) > 0 {
		t.write(out)
	}
}

func (t *StdioTransport) dispatch(ctx context.Context, msg json.RawMessage) *protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(msg, &req); err != nil {
		resp := protocol.NewInvalidRequestError(err.Error(), nil).ToResponse()
		return &resp
	}

	ctx, _ = utils.EnsureTraceId(ctx)
	if !req.IsNotification() {
		ctx = utils.SetRequestId(ctx, string(req.ID))
	}
	logger.Trace(ctx, "Received message", "raw", string(msg))
	slog.DebugContext(ctx, "Received request", "method", req.Method)

	return t.handler.HandleRequest(ctx, &req)
}

// write serializes v as one line; concurrent writers never interleave
func (t *StdioTransport) write(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.out.Write(data); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
