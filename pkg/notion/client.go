package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	// searchPageSize is how many hits search returns
	searchPageSize = 5
	// pageContentSize is how many top-level blocks are fetched with a page
	pageContentSize = 100
)

// Client is a thin client for the Notion REST API.
// Response bodies are returned untouched.
type Client struct {
	baseURL    string
	apiKey     string
	version    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root (tests use httptest)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithVersion sets the Notion-Version header
func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// WithTimeout bounds every request
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a client authenticating with apiKey
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		version:    DefaultVersion,
		timeout:    30 * time.Second,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryDatabaseRequest is the body of a database query
type QueryDatabaseRequest struct {
	Filter   json.RawMessage `json:"filter,omitempty"`
	Sorts    json.RawMessage `json:"sorts,omitempty"`
	PageSize int             `json:"page_size,omitempty"`
}

// ListBlockChildrenOptions selects a page of child blocks
type ListBlockChildrenOptions struct {
	PageSize    int
	StartCursor string
}

// Search runs a workspace search and returns the raw results array
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"query":     query,
		"page_size": searchPageSize,
	}

	raw, err := c.do(ctx, http.MethodPost, "/v1/search", nil, body)
	if err != nil {
		return nil, err
	}

	return listResults(raw)
}

// listResults extracts the results array of a Notion list object
func listResults(raw json.RawMessage) (json.RawMessage, error) {
	var list struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}
	if len(list.Results) == 0 || string(list.Results) == "null" {
		return json.RawMessage(`[]`), nil
	}
	return list.Results, nil
}

// RetrievePage returns a page object
func (c *Client) RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil, nil)
}

// RetrievePageWithContent returns {page, content}: the page object and its
// first top-level child blocks.
func (c *Client) RetrievePageWithContent(ctx context.Context, pageID string) (json.RawMessage, error) {
	page, err := c.RetrievePage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	children, err := c.ListBlockChildren(ctx, pageID, ListBlockChildrenOptions{PageSize: pageContentSize})
	if err != nil {
		return nil, err
	}
	content, err := listResults(children)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Page    json.RawMessage `json:"page"`
		Content json.RawMessage `json:"content"`
	}{Page: page, Content: content})
}

// RetrieveDatabase returns a database object
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(databaseID), nil, nil)
}

// QueryDatabase queries a database
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryDatabaseRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(databaseID)+"/query", nil, req)
}

// RetrieveBlock returns a block object
func (c *Client) RetrieveBlock(ctx context.Context, blockID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/blocks/"+url.PathEscape(blockID), nil, nil)
}

// ListBlockChildren returns one page of a block's children
func (c *Client) ListBlockChildren(ctx context.Context, blockID string, opts ListBlockChildrenOptions) (json.RawMessage, error) {
	query := url.Values{}
	if opts.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.StartCursor != "" {
		query.Set("start_cursor", opts.StartCursor)
	}
	return c.do(ctx, http.MethodGet, "/v1/blocks/"+url.PathEscape(blockID)+"/children", query, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	slog.Debug("Notion request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("notion returned a non-JSON body (status %d)", resp.StatusCode)
	}
	return data, nil
}
