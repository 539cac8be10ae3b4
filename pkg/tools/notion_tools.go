package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/traego/notion-mcp/pkg/notion"
	"github.com/traego/notion-mcp/pkg/resources"
)

const (
	SearchNotion           = "search_notion"
	GetNotionPage          = "get_notion_page"
	GetNotionDatabase      = "get_notion_database"
	QueryNotionDatabase    = "query_notion_database"
	GetNotionBlock         = "get_notion_block"
	GetNotionBlockChildren = "get_notion_block_children"

	defaultQueryPageSize    = 10
	defaultChildrenPageSize = 100
)

// NotionAPI is the part of the Notion client the tools call
type NotionAPI interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
	RetrievePageWithContent(ctx context.Context, pageID string) (json.RawMessage, error)
	RetrieveDatabase(ctx context.Context, databaseID string) (json.RawMessage, error)
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryDatabaseRequest) (json.RawMessage, error)
	RetrieveBlock(ctx context.Context, blockID string) (json.RawMessage, error)
	ListBlockChildren(ctx context.Context, blockID string, opts notion.ListBlockChildrenOptions) (json.RawMessage, error)
}

// Registrar is satisfied by resources.StaticToolRegistry
type Registrar interface {
	RegisterTool(tool resources.Tool, handler resources.ToolHandler) error
}

type definition struct {
	tool    resources.Tool
	handler resources.ToolHandler
}

// RegisterAll registers the six Notion tools. It stops at the first failure.
func RegisterAll(registry Registrar, api NotionAPI) error {
	for _, def := range definitions(api) {
		if err := registry.RegisterTool(def.tool, def.handler); err != nil {
			return fmt.Errorf("registering %s: %w", def.tool.Name, err)
		}
	}
	return nil
}

func definitions(api NotionAPI) []definition {
	return []definition{
		{
			tool: resources.NewTool(SearchNotion).
				WithDescription("Search Notion pages and databases using a query string. The pages/databases must have been shared with the Notion MCP Server integration.").
				WithInputs([]resources.ToolInput{
					{Name: "searchQuery", Type: resources.TypeString, Description: "The complete user query to search Notion for", Required: true},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				results, err := api.Search(ctx, params.String("searchQuery"))
				if err != nil {
					return nil, fmt.Errorf("searching Notion: %w", err)
				}
				return results, nil
			},
		},
		{
			tool: resources.NewTool(GetNotionPage).
				WithDescription("Retrieve detailed content from a specific Notion page.").
				WithInputs([]resources.ToolInput{
					{Name: "pageId", Type: resources.TypeString, Description: "The ID of the Notion page to retrieve", Required: true},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				page, err := api.RetrievePageWithContent(ctx, params.String("pageId"))
				if err != nil {
					return nil, fmt.Errorf("retrieving Notion page: %w", err)
				}
				return page, nil
			},
		},
		{
			tool: resources.NewTool(GetNotionDatabase).
				WithDescription("Retrieve metadata and schema of a Notion database.").
				WithInputs([]resources.ToolInput{
					{Name: "databaseId", Type: resources.TypeString, Description: "The ID of the Notion database to retrieve", Required: true},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				database, err := api.RetrieveDatabase(ctx, params.String("databaseId"))
				if err != nil {
					return nil, fmt.Errorf("retrieving Notion database: %w", err)
				}
				return database, nil
			},
		},
		{
			tool: resources.NewTool(QueryNotionDatabase).
				WithDescription("Search and filter entries in a Notion database.").
				WithInputs([]resources.ToolInput{
					{Name: "databaseId", Type: resources.TypeString, Description: "The ID of the Notion database to query", Required: true},
					{Name: "filter", Type: resources.TypeString, Description: "Optional JSON filter string to apply to the query"},
					{Name: "sorts", Type: resources.TypeString, Description: "Optional JSON sorts string to order the results"},
					{Name: "pageSize", Type: resources.TypeNumber, Description: "Number of results to return (max 100)", Default: float64(defaultQueryPageSize)},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				req := notion.QueryDatabaseRequest{
					PageSize: pageSize(params, defaultQueryPageSize),
				}

				var err error
				if req.Filter, err = embeddedJSON(params, "filter"); err != nil {
					return nil, err
				}
				if req.Sorts, err = embeddedJSON(params, "sorts"); err != nil {
					return nil, err
				}

				result, err := api.QueryDatabase(ctx, params.String("databaseId"), req)
				if err != nil {
					return nil, fmt.Errorf("querying Notion database: %w", err)
				}
				return result, nil
			},
		},
		{
			tool: resources.NewTool(GetNotionBlock).
				WithDescription("Retrieve a specific Notion block by its ID.").
				WithInputs([]resources.ToolInput{
					{Name: "blockId", Type: resources.TypeString, Description: "The ID of the Notion block to retrieve", Required: true},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				block, err := api.RetrieveBlock(ctx, params.String("blockId"))
				if err != nil {
					return nil, fmt.Errorf("retrieving Notion block: %w", err)
				}
				return block, nil
			},
		},
		{
			tool: resources.NewTool(GetNotionBlockChildren).
				WithDescription("Retrieve child blocks of a specific Notion block.").
				WithInputs([]resources.ToolInput{
					{Name: "blockId", Type: resources.TypeString, Description: "The ID of the parent Notion block", Required: true},
					{Name: "pageSize", Type: resources.TypeNumber, Description: "Number of results to return (max 100)", Default: float64(defaultChildrenPageSize)},
					{Name: "startCursor", Type: resources.TypeString, Description: "Cursor for pagination"},
				}).
				Build(),
			handler: func(ctx context.Context, params resources.ValidatedParams) (interface{}, error) {
				cursor, _ := params.OptionalString("startCursor")
				children, err := api.ListBlockChildren(ctx, params.String("blockId"), notion.ListBlockChildrenOptions{
					PageSize:    pageSize(params, defaultChildrenPageSize),
					StartCursor: cursor,
				})
				if err != nil {
					return nil, fmt.Errorf("retrieving Notion block children: %w", err)
				}
				return children, nil
			},
		},
	}
}

// pageSize reads pageSize, treating zero and negative values as unset
func pageSize(params resources.ValidatedParams, fallback int) int {
	if n, ok := params.OptionalInt("pageSize"); ok && n > 0 {
		return n
	}
	return fallback
}

// embeddedJSON decodes a string parameter that carries a JSON expression.
// An empty or absent parameter yields nil.
func embeddedJSON(params resources.ValidatedParams, name string) (json.RawMessage, error) {
	text, ok := params.OptionalString(name)
	if !ok {
		return nil, nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &resources.ArgumentParseError{Param: name, Err: err}
	}
	return json.RawMessage(text), nil
}
