package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

// DefaultPath returns the default config file location, ~/.meetsync/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".meetsync", "config.toml"), nil
}

// Config is the full application configuration.
type Config struct {
	// VaultPath is the root of the notes vault. Required; must exist.
	VaultPath string `toml:"vault_path"`

	// OutputFolder is the folder inside the vault where notes are written.
	OutputFolder string `toml:"output_folder"`

	// DataDir holds the sync state database. Empty means ~/.meetsync/data.
	DataDir string `toml:"data_dir"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	Stabilize StabilizeConfig         `toml:"stabilize"`
	Sources   map[string]SourceConfig `toml:"sources"`
}

// StabilizeConfig bounds the content stabilization wait.
type StabilizeConfig struct {
	MaxWaitSeconds      int `toml:"max_wait_seconds"`
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// MaxWait returns the configured maximum wait, or 0 for the default.
func (c StabilizeConfig) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSeconds) * time.Second
}

// PollInterval returns the configured poll interval, or 0 for the default.
func (c StabilizeConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// SourceConfig defines one platform source. The table key is the source ID.
type SourceConfig struct {
	// Type selects the adapter (pocket, drive, zoomweb).
	Type string `toml:"type"`

	// Name is the human-facing platform label. Defaults to the source ID.
	Name string `toml:"name"`

	// Enabled gates sync for the source. Defaults to true.
	Enabled *bool `toml:"enabled"`

	// Settings are adapter-specific (credentials, folder names, URLs).
	Settings map[string]string `toml:"settings"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w: %v", path, domain.ErrConfig, err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w: %v", path, domain.ErrConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputFolder == "" {
		c.OutputFolder = "Meetings"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.VaultPath = expandHome(c.VaultPath)
	c.DataDir = expandHome(c.DataDir)
}

func (c *Config) validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("%w: vault_path is required", domain.ErrConfig)
	}
	info, err := os.Stat(c.VaultPath)
	if err != nil {
		return fmt.Errorf("%w: vault_path %q: %v", domain.ErrConfig, c.VaultPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: vault_path %q is not a directory", domain.ErrConfig, c.VaultPath)
	}

	for id, src := range c.Sources {
		if src.Type == "" {
			return fmt.Errorf("%w: source %q has no type", domain.ErrConfig, id)
		}
	}
	return nil
}

// DomainSources converts the source tables into domain sources, sorted by ID
// so runs iterate in a stable order.
func (c *Config) DomainSources() []domain.Source {
	ids := make([]string, 0, len(c.Sources))
	for id := range c.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sources := make([]domain.Source, 0, len(ids))
	for _, id := range ids {
		src := c.Sources[id]
		name := src.Name
		if name == "" {
			name = id
		}
		enabled := true
		if src.Enabled != nil {
			enabled = *src.Enabled
		}
		sources = append(sources, domain.Source{
			ID:      id,
			Type:    src.Type,
			Name:    name,
			Enabled: enabled,
			Config:  src.Settings,
		})
	}
	return sources
}

// OutputDir returns the absolute notes directory inside the vault.
func (c *Config) OutputDir() string {
	return filepath.Join(c.VaultPath, c.OutputFolder)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
