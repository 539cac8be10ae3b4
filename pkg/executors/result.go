package executors

import (
	"bytes"
	"encoding/json"

	"github.com/traego/notion-mcp/pkg/protocol"
)

// TextResult wraps text in a single-block success envelope
func TextResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: protocol.ContentTypeText, Text: text}},
	}
}

// ErrorResult wraps text in a single-block envelope flagged as an error
func ErrorResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: protocol.ContentTypeText, Text: text}},
		IsError: true,
	}
}

// JSONResult renders a handler payload as a success envelope
func JSONResult(payload interface{}) (*protocol.CallToolResult, error) {
	text, err := FormatPayload(payload)
	if err != nil {
		return nil, err
	}
	return TextResult(text), nil
}

// FormatPayload renders payload as two-space indented JSON.
// Strings are returned unchanged; raw JSON keeps its key order.
func FormatPayload(payload interface{}) (string, error) {
	switch v := payload.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		if len(v) == 0 {
			return "null", nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, v, "", "  "); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
