package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/json"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// CatalogFile is the on-disk layout of a tool catalog.
//
//	owner: user-1
//	tools:
//	  - name: web
//	    description: Search the web
//	    metadata:
//	      category: Search
type CatalogFile struct {
	Owner string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Tools []tools.Tool `json:"tools" yaml:"tools"`
}

// ParseCatalog decodes a catalog document. YAML is assumed unless ext is
// ".json". Tools without an ID are given a random one.
func ParseCatalog(data []byte, ext string) (*CatalogFile, error) {
	var file CatalogFile
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid JSON catalog: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid YAML catalog: %w", err)
		}
	}
	for i := range file.Tools {
		if file.Tools[i].Name == "" {
			return nil, fmt.Errorf("catalog tool #%d has no name", i)
		}
		if file.Tools[i].ID == "" {
			file.Tools[i].ID = uuid.NewString()
		}
	}
	return &file, nil
}

// LoadFile reads a catalog file and returns a repository grouped by
// category. ownerID overrides the file's owner when non-empty.
func LoadFile(path, ownerID string) (*InMemoryToolRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog file %q: %w", path, err)
	}
	file, err := ParseCatalog(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ownerID == "" {
		ownerID = file.Owner
	}
	return NewInMemoryToolRepositoryFrom(catalog.Group(file.Tools, catalog.GroupOptions{OwnerID: ownerID})), nil
}
