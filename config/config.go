// Package config loads and validates the project configuration consumed by
// the optimizer core. The file format is YAML or JSON; any field can be
// overridden through MG_-prefixed environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/minigrid/core/metrics"
)

type Config struct {
	Project    Project        `json:"project"`
	Advanced   Advanced       `json:"advanced"`
	Data       Data           `json:"data"`
	RES        RES            `json:"res"`
	Battery    Battery        `json:"battery"`
	Generator  Generator      `json:"generator"`
	Grid       Grid           `json:"grid"`
	TES        TES            `json:"tes"`
	Compressor Compressor     `json:"compressor"`
	Solver     Solver         `json:"solver"`
	Metrics    metrics.Config `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("MG_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mg_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	c.Project.SetDefaults()
	c.Advanced.SetDefaults(c.Project.Years)
	c.Solver.SetDefaults()
}

// Validate checks structural soundness of every section. Semantic
// cross-checks (series lengths, share sums, per-technology array lengths)
// belong to the parameter builder.
func (c *Config) Validate() error {
	if err := c.Project.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := c.Advanced.Validate(); err != nil {
		return fmt.Errorf("advanced: %w", err)
	}
	if err := c.RES.Validate(); err != nil {
		return fmt.Errorf("res: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	return nil
}
