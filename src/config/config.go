package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// VariableNotFound is returned when a referenced variable isn't present.
type VariableNotFound struct {
	VariableName string
}

func (e *VariableNotFound) Error() string {
	return fmt.Sprintf(
		"Variable %q referenced in toolgrid configuration not found. "+
			"Please add it to the environment variables or to your configuration.",
		e.VariableName,
	)
}

// VariablesConfig is the interface for any variable‐loading strategy.
type VariablesConfig interface {
	// Load returns all variables available from this provider.
	Load() (map[string]string, error)
	// Get returns a single variable value or an error if not present.
	Get(key string) (string, error)
}

// DotEnv implements VariablesConfig by loading a .env file.
type DotEnv struct {
	EnvFilePath string
}

func NewDotEnv(path string) *DotEnv {
	return &DotEnv{EnvFilePath: path}
}

// Load reads the .env file and returns a map of key→value.
func (u *DotEnv) Load() (map[string]string, error) {
	return godotenv.Read(u.EnvFilePath)
}

// Get loads the file and looks up a single key.
func (u *DotEnv) Get(key string) (string, error) {
	vars, err := u.Load()
	if err != nil {
		return "", err
	}
	if val, ok := vars[key]; ok {
		return val, nil
	}
	return "", &VariableNotFound{VariableName: key}
}

// ReadonlyPolicy names, as written in configuration files.
const (
	ReadonlyKeep    = "keep"
	ReadonlyFetched = "fetched"
)

// Config holds the settings of the toolgrid front-end.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	Token      string `yaml:"token"`

	// WatchURL is the websocket feed of assistant selections. When empty,
	// AssistantID selects a fixed assistant.
	WatchURL    string `yaml:"watch_url"`
	AssistantID string `yaml:"assistant_id"`

	// GraphQLURL and MCPURL select alternative assistant tool sources.
	GraphQLURL  string `yaml:"graphql_url"`
	MCPURL      string `yaml:"mcp_url"`
	MCPCategory string `yaml:"mcp_category"`

	// CatalogFile is a local YAML/JSON tool catalog used instead of the
	// tool-reference API.
	CatalogFile string `yaml:"catalog_file"`
	OwnerID     string `yaml:"owner_id"`

	Quiescence     time.Duration `yaml:"quiescence"`
	ReadonlyPolicy string        `yaml:"readonly_policy"`
	EnvFile        string        `yaml:"env_file"`

	// Variables explicitly passed in (takes precedence)
	Variables map[string]string `yaml:"variables"`

	// A list of providers to load from (e.g. .env, AWS SSM, Vault, etc.)
	LoadVariablesFrom []VariablesConfig `yaml:"-"`
}

// NewConfig constructs a config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Quiescence:     150 * time.Millisecond,
		ReadonlyPolicy: ReadonlyKeep,
		Variables:      make(map[string]string),
	}
}

// LoadFile reads a YAML configuration file on top of the defaults. A
// relative env_file or catalog_file is resolved against the file's
// directory, and env_file is registered as a variable source.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config file %q: %w", path, err)
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]string)
	}
	dir := filepath.Dir(path)
	if cfg.EnvFile != "" && !filepath.IsAbs(cfg.EnvFile) {
		cfg.EnvFile = filepath.Join(dir, cfg.EnvFile)
	}
	if cfg.CatalogFile != "" && !filepath.IsAbs(cfg.CatalogFile) {
		cfg.CatalogFile = filepath.Join(dir, cfg.CatalogFile)
	}
	if cfg.EnvFile != "" {
		cfg.LoadVariablesFrom = append(cfg.LoadVariablesFrom, NewDotEnv(cfg.EnvFile))
	}
	return cfg, nil
}

var varRef = regexp.MustCompile(`\${(\w+)}|\$(\w+)`)

// Resolve substitutes ${VAR} and $VAR references in every string setting
// and validates the result.
func (c *Config) Resolve() error {
	fields := []*string{
		&c.APIBaseURL, &c.Token, &c.WatchURL, &c.AssistantID,
		&c.GraphQLURL, &c.MCPURL, &c.MCPCategory, &c.CatalogFile, &c.OwnerID,
	}
	for _, f := range fields {
		v, err := c.replaceVars(*f)
		if err != nil {
			return err
		}
		*f = v
	}
	return c.Validate()
}

// Validate checks that the configuration can drive the front-end.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" && c.CatalogFile == "" && c.MCPURL == "" {
		return fmt.Errorf("one of api_base_url, catalog_file or mcp_url is required")
	}
	if c.Quiescence < 0 {
		return fmt.Errorf("quiescence must not be negative, got %s", c.Quiescence)
	}
	switch strings.ToLower(c.ReadonlyPolicy) {
	case "", ReadonlyKeep, ReadonlyFetched:
	default:
		return fmt.Errorf("unknown readonly_policy %q (want %q or %q)", c.ReadonlyPolicy, ReadonlyKeep, ReadonlyFetched)
	}
	return nil
}

func (c *Config) replaceVars(s string) (string, error) {
	var missing error
	out := varRef.ReplaceAllStringFunc(s, func(match string) string {
		g := varRef.FindStringSubmatch(match)
		name := g[1]
		if name == "" {
			name = g[2]
		}
		val, err := c.Variable(name)
		if err != nil {
			if missing == nil {
				missing = err
			}
			return match
		}
		return val
	})
	return out, missing
}

// Variable checks inline, loaders, then os.Getenv.
func (c *Config) Variable(key string) (string, error) {
	if v, ok := c.Variables[key]; ok {
		return v, nil
	}
	for _, loader := range c.LoadVariablesFrom {
		if val, err := loader.Get(key); err == nil && val != "" {
			return val, nil
		}
	}
	if env := os.Getenv(key); env != "" {
		return env, nil
	}
	return "", &VariableNotFound{VariableName: key}
}
