// Package config loads the engine configuration from YAML.
//
// Values missing from a file keep their defaults:
//
//	search:
//	  max_matches: 1000
//	  timeout: 10s
//	traversal:
//	  default_limit: 2
//	blacklist:
//	  file: ubiquitous.txt.sz
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/logging"
	"github.com/dd0wney/cluso-pathways/pkg/validation"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel      = "PATHWAYS_LOG_LEVEL"
	EnvSearchTimeout = "PATHWAYS_SEARCH_TIMEOUT"
	EnvBlacklistFile = "PATHWAYS_BLACKLIST_FILE"
)

// Config is the root configuration.
type Config struct {
	Logging   logging.Config  `yaml:"logging"`
	Search    SearchConfig    `yaml:"search"`
	Traversal TraversalConfig `yaml:"traversal"`
	Blacklist BlacklistConfig `yaml:"blacklist"`
}

// SearchConfig configures pattern searches.
type SearchConfig struct {
	CheckInterval int `yaml:"check_interval" validate:"gte=1"`
	// MaxMatches of zero means unlimited.
	MaxMatches int           `yaml:"max_matches" validate:"gte=0"`
	Workers    int           `yaml:"workers" validate:"gte=1,lte=1024"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxTimeout time.Duration `yaml:"max_timeout" validate:"gte=0"`
	// Patterns restricts the named library to these patterns. Empty
	// enables all of them.
	Patterns []string `yaml:"patterns" validate:"dive,patternname"`
}

// TraversalConfig configures the traversal queries.
type TraversalConfig struct {
	DefaultLimit        int           `yaml:"default_limit" validate:"gte=0"`
	MaxLimit            int           `yaml:"max_limit" validate:"gte=1"`
	ShortestSearchLimit int           `yaml:"shortest_search_limit" validate:"gte=1,lte=1000"`
	Timeout             time.Duration `yaml:"timeout" validate:"gte=0"`
	View                string        `yaml:"view" validate:"oneof=directed undirected"`
}

// BlacklistConfig selects the ubiquitous nodes. The explicit IDs, the file
// and the computed entries are merged.
type BlacklistConfig struct {
	IDs  []string `yaml:"ids"`
	File string   `yaml:"file"`
	// Compute derives entries from the graph structure.
	Compute         bool     `yaml:"compute"`
	DegreeThreshold int      `yaml:"degree_threshold" validate:"gte=0"`
	ContextRatio    float64  `yaml:"context_ratio" validate:"gte=0"`
	ExcludedTypes   []string `yaml:"excluded_types"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Logging: logging.Config{Level: "info"},
		Search: SearchConfig{
			CheckInterval: 1,
			Workers:       4,
			Timeout:       30 * time.Second,
			MaxTimeout:    5 * time.Minute,
		},
		Traversal: TraversalConfig{
			DefaultLimit:        1,
			MaxLimit:            100,
			ShortestSearchLimit: 25,
			Timeout:             30 * time.Second,
			View:                graph.Directed.String(),
		},
		Blacklist: BlacklistConfig{
			DegreeThreshold: blacklist.DefaultDegreeThreshold,
			ContextRatio:    blacklist.DefaultContextRatio,
		},
	}
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML file, then applies the environment.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment and revalidates.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := getenv(EnvSearchTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", validation.ErrInvalidConfig, EnvSearchTimeout, err)
		}
		c.Search.Timeout = d
	}
	if v := getenv(EnvBlacklistFile); v != "" {
		c.Blacklist.File = v
	}
	return c.Validate()
}

// Validate checks the struct tags, then the rules that span fields.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	cv := validation.NewConfigValidator("config")
	cv.Custom("logging.level", func() error {
		_, err := logging.ParseLevel(c.Logging.Level)
		return err
	})
	cv.NotAbove("traversal.default_limit", c.Traversal.DefaultLimit, "traversal.max_limit", c.Traversal.MaxLimit)
	cv.When(c.Search.MaxTimeout > 0, func(v *validation.ConfigValidator) {
		v.Custom("search.timeout", func() error {
			if c.Search.Timeout > c.Search.MaxTimeout {
				return fmt.Errorf("%v exceeds max_timeout %v", c.Search.Timeout, c.Search.MaxTimeout)
			}
			return nil
		})
	})
	cv.When(c.Blacklist.Compute, func(v *validation.ConfigValidator) {
		v.Custom("blacklist.compute", func() error {
			if c.Blacklist.DegreeThreshold == 0 && len(c.Blacklist.ExcludedTypes) == 0 {
				return errors.New("needs degree_threshold or excluded_types")
			}
			return nil
		})
	})
	return cv.Validate()
}

// GraphView returns the configured graph view.
func (t TraversalConfig) GraphView() graph.View {
	if t.View == graph.Undirected.String() {
		return graph.Undirected
	}
	return graph.Directed
}

// Options returns the computed blacklist strategy.
func (b BlacklistConfig) Options() blacklist.Options {
	return blacklist.Options{
		DegreeThreshold: b.DegreeThreshold,
		ExcludedTypes:   b.ExcludedTypes,
		ContextRatio:    b.ContextRatio,
	}
}

// Build assembles the blacklist for g. The result is empty when nothing
// is configured.
func (b BlacklistConfig) Build(g *graph.Graph) (*blacklist.Blacklist, error) {
	bl := blacklist.FromIDs(b.IDs...)
	if b.File != "" {
		loaded, err := blacklist.LoadFile(b.File)
		if err != nil {
			return nil, err
		}
		bl = bl.Merge(loaded)
	}
	if b.Compute {
		computed, err := blacklist.Compute(g, b.Options())
		if err != nil {
			return nil, err
		}
		bl = bl.Merge(computed)
	}
	return bl, nil
}
