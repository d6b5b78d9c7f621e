package main

import (
	"context"
	"fmt"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/apiclient"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/config"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/repository"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/store"
)

// catalogSource is the local copy of the tool catalog plus the remote
// deletion hook, if the catalog came from a service that supports it.
type catalogSource struct {
	repo   *repository.InMemoryToolRepository
	remote func(ctx context.Context, id string) error
	name   string
}

// loadCatalog picks the catalog from, in order, a catalog file, the tool
// reference API or an MCP server.
func loadCatalog(ctx context.Context, cfg *config.Config, client *apiclient.Client, logf func(string, ...interface{})) (*catalogSource, error) {
	switch {
	case cfg.CatalogFile != "":
		repo, err := repository.LoadFile(cfg.CatalogFile, cfg.OwnerID)
		if err != nil {
			return nil, err
		}
		return &catalogSource{repo: repo, name: cfg.CatalogFile}, nil

	case client != nil:
		m, err := client.ListToolReferences(ctx, catalog.GroupOptions{OwnerID: cfg.OwnerID})
		if err != nil {
			return nil, fmt.Errorf("failed to list tool references: %w", err)
		}
		return &catalogSource{
			repo:   repository.NewInMemoryToolRepositoryFrom(m),
			remote: client.DeleteTool,
			name:   cfg.APIBaseURL,
		}, nil

	case cfg.MCPURL != "":
		m, err := apiclient.NewMCPLister(cfg.MCPURL, cfg.MCPCategory, cfg.Token, logf).CategoryMap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list MCP tools: %w", err)
		}
		return &catalogSource{repo: repository.NewInMemoryToolRepositoryFrom(m), name: cfg.MCPURL}, nil
	}
	return nil, fmt.Errorf("no tool catalog configured")
}

// remove deletes a tool remotely, if possible, then locally, and returns
// the updated category map.
func (s *catalogSource) remove(ctx context.Context, id string) (catalog.CategoryMap, error) {
	if s.remote != nil {
		if err := s.remote(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.RemoveTool(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.CategoryMap(ctx)
}

// newLister selects where assistant tool lists come from. It returns nil
// when nothing is configured.
func newLister(cfg *config.Config, client *apiclient.Client, logf func(string, ...interface{})) (apiclient.ToolLister, error) {
	switch {
	case cfg.GraphQLURL != "":
		return apiclient.NewGraphQLLister(cfg.GraphQLURL, cfg.Token, func(msg string, err error) {
			logf("%s: %v", msg, err)
		})
	case cfg.MCPURL != "":
		return apiclient.NewMCPLister(cfg.MCPURL, cfg.MCPCategory, cfg.Token, logf), nil
	case client != nil:
		return client, nil
	}
	return nil, nil
}

func readonlyPolicy(name string) store.ReadonlyPolicy {
	if name == config.ReadonlyFetched {
		return store.UseFetched
	}
	return store.KeepReadonly
}
