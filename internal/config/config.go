// Package config loads the project configuration file ddms.yaml and the
// environment overrides that apply on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddms/pkg/ddms"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "ddms.yaml"

// Environment variables that override the file.
const (
	EnvVersion        = "DDMS_VERSION"
	EnvSchemaDir      = "DDMS_SCHEMA_DIR"
	EnvValidateSchema = "DDMS_VALIDATE_SCHEMA"
	EnvFormat         = "DDMS_FORMAT"
)

type SchemaConfig struct {
	// Dir replaces the leading "schemas/" of every built-in schema location.
	Dir       string `yaml:"dir,omitempty"`
	Validate  bool   `yaml:"validate"`
	CacheSize int    `yaml:"cache_size,omitempty"`
}

type ProjectConfig struct {
	// Version is the DDMS version for new records when a command gets no
	// --ddms-version. Reading always detects the version unless it is pinned
	// on the command line.
	Version  string            `yaml:"version,omitempty"`
	Format   string            `yaml:"format,omitempty"`
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Schemas  SchemaConfig      `yaml:"schemas"`
	// Versions replaces the built-in version table when non-empty.
	Versions []ddms.Descriptor `yaml:"versions,omitempty"`
}

// Load reads ddms.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ddms.ErrInvalidConfig, ConfigFileName, err)
	}
	return &cfg, nil
}

// Save writes cfg to ddms.yaml in dir.
func Save(dir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0644)
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv in
// production.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvVersion); ok && v != "" {
		c.Version = v
	}
	if v, ok := lookup(EnvSchemaDir); ok && v != "" {
		c.Schemas.Dir = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		c.Format = v
	}
	if v, ok := lookup(EnvValidateSchema); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ddms.ErrInvalidConfig, EnvValidateSchema, v)
		}
		c.Schemas.Validate = b
	}
	return nil
}

// Descriptors returns the version table with schema locations rebased onto
// Schemas.Dir.
func (c *ProjectConfig) Descriptors() []ddms.Descriptor {
	descs := c.Versions
	if len(descs) == 0 {
		descs = ddms.DefaultDescriptors()
	}
	out := make([]ddms.Descriptor, len(descs))
	for i, d := range descs {
		schemas := make(map[string]string, len(d.Schemas))
		for vocab, loc := range d.Schemas {
			schemas[vocab] = c.rebase(loc)
		}
		d.Schemas = schemas
		out[i] = d
	}
	return out
}

func (c *ProjectConfig) rebase(loc string) string {
	if c.Schemas.Dir == "" || filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(c.Schemas.Dir, strings.TrimPrefix(filepath.ToSlash(loc), "schemas/"))
}

// Registry builds the version registry described by the configuration.
func (c *ProjectConfig) Registry() (*ddms.Registry, error) {
	return ddms.NewRegistry(c.Descriptors(), c.Prefixes)
}

// OutputFormat parses Format, defaulting to text.
func (c *ProjectConfig) OutputFormat() (ddms.OutputFormat, error) {
	if c.Format == "" {
		return ddms.OutputText, nil
	}
	return ddms.ParseOutputFormat(c.Format)
}

// Default returns the configuration used when no ddms.yaml exists.
func Default() *ProjectConfig {
	return &ProjectConfig{}
}
