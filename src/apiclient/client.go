// Package apiclient talks to the services that own tool references and
// assistant tool lists.
package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/json"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// ToolLister fetches the tools attached to an assistant.
type ToolLister interface {
	ListTools(ctx context.Context, assistantID string) (*tools.ToolList, error)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client is the REST client for the tool service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     func(format string, args ...interface{})
}

// NewClient constructs a Client for baseURL (e.g. https://host/api).
func NewClient(baseURL, token string, logger func(format string, args ...interface{})) (*Client, error) {
	if logger == nil {
		logger = func(format string, args ...interface{}) {}
	}
	if !(strings.HasPrefix(baseURL, "https://") || strings.HasPrefix(baseURL, "http://localhost") || strings.HasPrefix(baseURL, "http://127.0.0.1")) {
		return nil, fmt.Errorf("security error: URL must use HTTPS or localhost; got: %s", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// ListTools returns the tools of an assistant.
func (c *Client) ListTools(ctx context.Context, assistantID string) (*tools.ToolList, error) {
	if assistantID == "" {
		return nil, fmt.Errorf("assistant id must not be empty")
	}
	var list tools.ToolList
	if err := c.do(ctx, http.MethodGet, "/assistants/"+url.PathEscape(assistantID)+"/tools", &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []tools.Tool{}
	}
	return &list, nil
}

// ListToolReferences returns every tool reference grouped by category.
func (c *Client) ListToolReferences(ctx context.Context, opts catalog.GroupOptions) (catalog.CategoryMap, error) {
	var resp struct {
		Items []tools.Tool `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/tool-references", &resp); err != nil {
		return nil, err
	}
	return catalog.Group(resp.Items, opts), nil
}

// DeleteTool deletes a tool reference by ID.
func (c *Client) DeleteTool(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tool-references/"+url.PathEscape(id), nil)
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	full := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, full, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger("Error connecting to %s: %v", full, err)
		return fmt.Errorf("%s %s: %w", method, full, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger("Error response from %s: %s", full, resp.Status)
		return &HTTPError{Method: method, URL: full, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", full, err)
	}
	return nil
}
