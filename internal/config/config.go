package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the single immutable configuration value handed to the core at
// startup. The core never re-reads configuration itself.
type Settings struct {
	// Project is the Google Cloud project id. Required.
	Project string `yaml:"project"`
	// Region restricts listing to zones with this region prefix. Optional.
	Region string `yaml:"region"`
	// RefreshInterval is the base poll interval.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// CommandTimeout bounds each lifecycle operation.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// EvictionMisses is how many consecutive polls may omit an instance
	// before it is dropped from the store.
	EvictionMisses int `yaml:"eviction_misses"`
}

// Default returns the baseline settings before file and flag overrides.
func Default() Settings {
	return Settings{
		RefreshInterval: 5 * time.Second,
		CommandTimeout:  45 * time.Second,
		EvictionMisses:  3,
	}
}

// Load reads settings from path, or from the default location when path is
// empty. A missing file is not an error; defaults are returned.
func Load(path string) (Settings, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, "g1c", "config.yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return s, nil
}

// WithProject overrides the project when one is provided.
func (s Settings) WithProject(project string) Settings {
	if project != "" {
		s.Project = project
	}
	return s
}

// WithRegion overrides the region when one is provided.
func (s Settings) WithRegion(region string) Settings {
	if region != "" {
		s.Region = region
	}
	return s
}

// WithRefreshInterval overrides the poll interval when it is positive.
func (s Settings) WithRefreshInterval(d time.Duration) Settings {
	if d > 0 {
		s.RefreshInterval = d
	}
	return s
}

// Validate ensures the settings can actually drive the dashboard.
func (s Settings) Validate() error {
	if s.Project == "" {
		return fmt.Errorf("project is required (flag --project or config file)")
	}
	if s.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}
	if s.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive")
	}
	if s.EvictionMisses < 1 {
		return fmt.Errorf("eviction_misses must be at least 1")
	}
	return nil
}
