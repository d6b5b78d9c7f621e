package apiclient

import (
	"context"
	"fmt"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpapi "github.com/mark3labs/mcp-go/mcp"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// MCPLister exposes the tools of an MCP streamable-HTTP server as tool
// references. Every tool is filed under the server's category, which is
// the configured name or, if empty, the name the server reports.
type MCPLister struct {
	url      string
	category string
	headers  map[string]string
	logger   func(format string, args ...interface{})
}

// NewMCPLister creates a lister for the MCP server at url.
func NewMCPLister(url, category, token string, logger func(format string, args ...interface{})) *MCPLister {
	if logger == nil {
		logger = func(format string, args ...interface{}) {}
	}
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &MCPLister{url: url, category: category, headers: headers, logger: logger}
}

// ListTools lists the server's tools. MCP servers are not assistant
// scoped, so assistantID only ends up in log output. The list is always
// read-only.
func (l *MCPLister) ListTools(ctx context.Context, assistantID string) (*tools.ToolList, error) {
	items, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	l.logger("Listed %d MCP tools from %s for assistant %s", len(items), l.url, assistantID)
	return &tools.ToolList{Readonly: true, Items: items}, nil
}

// CategoryMap lists the server's tools grouped under one category.
func (l *MCPLister) CategoryMap(ctx context.Context) (catalog.CategoryMap, error) {
	items, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Group(items, catalog.GroupOptions{}), nil
}

func (l *MCPLister) fetch(ctx context.Context) ([]tools.Tool, error) {
	cli, err := mcpclient.NewStreamableHttpClient(l.url, transport.WithHTTPHeaders(l.headers))
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP HTTP client: %w", err)
	}
	defer cli.Close()

	if err := cli.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP HTTP client: %w", err)
	}
	initReq := mcpapi.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpapi.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpapi.Implementation{Name: "toolgrid", Version: "1.0.0"}
	initRes, err := cli.Initialize(ctx, initReq)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	category := l.category
	if category == "" {
		category = initRes.ServerInfo.Name
	}

	res, err := cli.ListTools(ctx, mcpapi.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	items := make([]tools.Tool, len(res.Tools))
	for i, tl := range res.Tools {
		items[i] = tools.Tool{
			ID:          "mcp:" + category + "/" + tl.Name,
			Name:        tl.Name,
			Description: tl.Description,
			Metadata:    tools.Metadata{tools.MetaCategory: category},
		}
	}
	return items, nil
}
