package tools

import (
	"strings"

	"github.com/spf13/cast"
)

// Well-known metadata keys.
const (
	MetaCategory = "category"
	MetaBundle   = "bundle"
	MetaOwner    = "owner"
	MetaCustom   = "custom"
	MetaIcon     = "icon"
)

// Metadata is the open key/value bag attached to a tool reference.
// Values arrive from JSON, YAML and MCP servers, so they are coerced on read.
type Metadata map[string]interface{}

// Get returns the value for key coerced to a string ("" when absent).
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return cast.ToString(m[key])
}

// Bool returns the value for key coerced to a bool. Strings such as "true"
// and "1" are accepted.
func (m Metadata) Bool(key string) bool {
	if m == nil {
		return false
	}
	return cast.ToBool(m[key])
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tool holds the metadata for a single tool reference shown in the grid.
type Tool struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Category returns metadata.category, or "" if unset.
func (t Tool) Category() string {
	return strings.TrimSpace(t.Metadata.Get(MetaCategory))
}

// IsBundle reports whether t stands for "all tools in its category".
func (t Tool) IsBundle() bool {
	return t.Metadata.Bool(MetaBundle)
}

// Clone returns a copy of t that shares no mutable state with it.
func (t Tool) Clone() Tool {
	c := t
	c.Metadata = t.Metadata.Clone()
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// ToolList is the list of tools attached to an assistant.
type ToolList struct {
	Readonly bool   `json:"readonly"`
	Items    []Tool `json:"items"`
}

// NewToolList returns the empty, read-only list a store starts with.
func NewToolList() ToolList {
	return ToolList{Readonly: true, Items: []Tool{}}
}
