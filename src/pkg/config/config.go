package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gh-nvat/attrdiff/src/pkg/evaluate"
	"github.com/gh-nvat/attrdiff/src/pkg/fetch"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile    = "attrdiff.yaml"
	DefaultSearchPathEnv = "NIX_PATH"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// Load reads the configuration file at path, applying defaults
	Load(path string) (*Config, error)
	// Validate validates the configuration
	Validate(cfg *Config) error
}

// Loader handles loading configuration files
type Loader struct{}

// Ensure Loader implements ConfigLoader
var _ ConfigLoader = (*Loader)(nil)

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Host:     reference.DefaultHost,
			Upstream: reference.DefaultUpstream,
			Channels: reference.DefaultChannels,
		},
		Tools: ToolsConfig{
			Fetcher:       []string{fetch.DefaultFetcher},
			Evaluator:     []string{evaluate.DefaultEvaluator},
			EvaluatorArgs: append([]string{}, evaluate.DefaultListArgs...),
		},
		SearchPathEnv: DefaultSearchPathEnv,
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// yields the defaults.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultConfigFile from the working directory when it
// exists and falls back to the defaults otherwise.
func (l *Loader) LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", DefaultConfigFile, err)
	}
	return l.Load(DefaultConfigFile)
}

// Validate validates the configuration
func (l *Loader) Validate(cfg *Config) error {
	if cfg.GitHub.Host == "" {
		return fmt.Errorf("github.host is required")
	}
	if err := validateRepo("github.upstream", cfg.GitHub.Upstream); err != nil {
		return err
	}
	if err := validateRepo("github.channels", cfg.GitHub.Channels); err != nil {
		return err
	}
	if len(cfg.Tools.Fetcher) == 0 || cfg.Tools.Fetcher[0] == "" {
		return fmt.Errorf("tools.fetcher must name a command")
	}
	if len(cfg.Tools.Evaluator) == 0 || cfg.Tools.Evaluator[0] == "" {
		return fmt.Errorf("tools.evaluator must name a command")
	}
	if cfg.SearchPathEnv == "" {
		return fmt.Errorf("searchPathEnv is required")
	}
	if cfg.Timeout.Duration < 0 {
		return fmt.Errorf("timeout cannot be negative: %s", cfg.Timeout)
	}
	return nil
}

func validateRepo(field, repo string) error {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%s must be owner/repo, got %q", field, repo)
	}
	return nil
}

// Hosting returns the archive hosting used by the reference resolver
func (c *Config) Hosting() reference.Hosting {
	return reference.Hosting{
		Host:     c.GitHub.Host,
		Upstream: c.GitHub.Upstream,
		Channels: c.GitHub.Channels,
	}
}

// SearchPath reads the configured search path variable from lookup
func (c *Config) SearchPath(lookup func(string) string) reference.SearchPath {
	return reference.ParseSearchPath(c.SearchPathEnv, lookup(c.SearchPathEnv))
}

// UnmarshalYAML parses durations written as Go duration strings
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}
