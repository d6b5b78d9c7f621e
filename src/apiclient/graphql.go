package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

const assistantToolsQuery = `query AssistantTools($id: ID!) {
  assistant(id: $id) {
    tools {
      readonly
      items { id name description metadata }
    }
  }
}`

// GraphQLLister lists assistant tools through a GraphQL endpoint.
type GraphQLLister struct {
	client *graphql.Client
	token  string
	log    func(msg string, err error)
}

// NewGraphQLLister creates a lister for endpoint.
func NewGraphQLLister(endpoint, token string, logger func(msg string, err error)) (*GraphQLLister, error) {
	if logger == nil {
		logger = func(msg string, err error) {}
	}
	if !(strings.HasPrefix(endpoint, "https://") || strings.HasPrefix(endpoint, "http://localhost") || strings.HasPrefix(endpoint, "http://127.0.0.1")) {
		return nil, fmt.Errorf("security error: URL must use HTTPS or localhost; got: %s", endpoint)
	}
	client := graphql.NewClient(endpoint, graphql.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	return &GraphQLLister{client: client, token: token, log: logger}, nil
}

func (l *GraphQLLister) ListTools(ctx context.Context, assistantID string) (*tools.ToolList, error) {
	req := graphql.NewRequest(assistantToolsQuery)
	req.Var("id", assistantID)
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	var resp struct {
		Assistant *struct {
			Tools tools.ToolList `json:"tools"`
		} `json:"assistant"`
	}
	if err := l.client.Run(ctx, req, &resp); err != nil {
		l.log("assistant tools query failed", err)
		return nil, fmt.Errorf("graphql assistant tools: %w", err)
	}
	if resp.Assistant == nil {
		return nil, fmt.Errorf("graphql assistant tools: assistant %q not found", assistantID)
	}
	list := resp.Assistant.Tools
	if list.Items == nil {
		list.Items = []tools.Tool{}
	}
	return &list, nil
}
