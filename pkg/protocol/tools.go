package protocol

// ContentTypeText is the only content block type produced by this server
const ContentTypeText = "text"

// Content is a single block of a tool result
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the envelope returned for every tools/call request
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// CallToolParams are the params of a tools/call request
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ListToolsParams are the params of a tools/list request
type ListToolsParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// GetToolParams are the params of a tools/get request
type GetToolParams struct {
	Name string `json:"name"`
}
