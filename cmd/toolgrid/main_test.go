package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/config"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/store"
)

func nopLog(string, ...interface{}) {}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `owner: u1
tools:
  - id: w
    name: web
    description: Search the web
    metadata:
      category: Search
  - id: n
    name: notes
    metadata:
      owner: u1
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestPrintGridFromCatalogFile(t *testing.T) {
	cfg := config.NewConfig()
	cfg.CatalogFile = writeCatalog(t)

	var out bytes.Buffer
	require.NoError(t, printGrid(context.Background(), cfg, "web", &out, nopLog))
	assert.Contains(t, out.String(), "Search (1)")
	assert.Contains(t, out.String(), "web")
	assert.NotContains(t, out.String(), "notes")

	out.Reset()
	require.NoError(t, printGrid(context.Background(), cfg, "zzz", &out, nopLog))
	assert.Contains(t, out.String(), "No tools found...")
}

func apiServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tool-references", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items":[{"id":"1","name":"web","metadata":{"category":"Search"}},{"id":"2","name":"mine","metadata":{"custom":true}}]}`)
	})
	mux.HandleFunc("GET /assistants/{id}/tools", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"readonly":false,"items":[{"id":"1","name":"web"}]}`)
	})
	mux.HandleFunc("DELETE /tool-references/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &deleted
}

func TestPrintGridWithAssistant(t *testing.T) {
	srv, _ := apiServer(t)
	cfg := config.NewConfig()
	cfg.APIBaseURL = srv.URL
	cfg.AssistantID = "a1"

	var out bytes.Buffer
	require.NoError(t, printGrid(context.Background(), cfg, "", &out, nopLog))
	assert.Contains(t, out.String(), catalog.YourToolsCategory)
	assert.Contains(t, out.String(), "Assistant a1 (1 tools, read-only)")
}

func TestCatalogSourceRemove(t *testing.T) {
	srv, deleted := apiServer(t)
	cfg := config.NewConfig()
	cfg.APIBaseURL = srv.URL
	client, err := newClient(cfg, nopLog)
	require.NoError(t, err)

	src, err := loadCatalog(context.Background(), cfg, client, nopLog)
	require.NoError(t, err)
	m, err := src.remove(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, *deleted)
	assert.Empty(t, m[catalog.YourToolsCategory].Tools)

	_, err = src.remove(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNewListerSelection(t *testing.T) {
	cfg := config.NewConfig()
	l, err := newLister(cfg, nil, nopLog)
	require.NoError(t, err)
	assert.Nil(t, l)

	cfg.MCPURL = "http://localhost:1/mcp"
	l, err = newLister(cfg, nil, nopLog)
	require.NoError(t, err)
	assert.NotNil(t, l)

	cfg.GraphQLURL = "http://example.com/graphql"
	_, err = newLister(cfg, nil, nopLog)
	assert.Error(t, err, "insecure GraphQL endpoint is rejected")
}

func TestReadonlyPolicy(t *testing.T) {
	assert.Equal(t, store.KeepReadonly, readonlyPolicy(config.ReadonlyKeep))
	assert.Equal(t, store.UseFetched, readonlyPolicy(config.ReadonlyFetched))
	assert.Equal(t, store.KeepReadonly, readonlyPolicy(""))
}

func TestLoadCatalogRequiresSource(t *testing.T) {
	_, err := loadCatalog(context.Background(), config.NewConfig(), nil, nopLog)
	assert.Error(t, err)
}
