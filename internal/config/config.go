// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Grid    GridConfig    `toml:"grid"`
	Remote  RemoteConfig  `toml:"remote"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme         string `toml:"theme"`          // built-in name or path to a .toml theme
	ExerciseWidth int    `toml:"exercise_width"` // columns of the sticky exercise column
	WeekWidth     int    `toml:"week_width"`     // columns of each week column
}

// GridConfig holds editor behaviour settings.
type GridConfig struct {
	ProgramID        string `toml:"program_id"` // program opened when --program is not given
	HistoryLimit     int    `toml:"history_limit"`
	SearchDebounceMS int    `toml:"search_debounce_ms"`
	SearchLimit      int    `toml:"search_limit"`
}

// SearchDebounce returns the search debounce as a duration.
func (g GridConfig) SearchDebounce() time.Duration {
	return time.Duration(g.SearchDebounceMS) * time.Millisecond
}

// RemoteConfig points the TUI at a coachgrid server instead of the local
// database.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"` // e.g., "http://localhost:8080"
	APIKey  string `toml:"api_key"`
}

// Enabled reports whether a remote server is configured.
func (r RemoteConfig) Enabled() bool { return r.BaseURL != "" }

// ServerConfig holds HTTP API settings for `coachgrid serve`.
type ServerConfig struct {
	Addr   string `toml:"addr"`    // e.g., ":8080"
	APIKey string `toml:"api_key"` // empty disables authentication
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:         "frappe",
			ExerciseWidth: 30,
			WeekWidth:     24,
		},
		Grid: GridConfig{
			HistoryLimit:     100,
			SearchDebounceMS: 250,
			SearchLimit:      20,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "coachgrid.db"
	}
	return filepath.Join(home, ".local", "share", "coachgrid", "coachgrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "coachgrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.UI.Theme = expandPath(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"COACHGRID_DB_PATH", &cfg.Storage.DBPath},
		{"COACHGRID_UI_THEME", &cfg.UI.Theme},
		{"COACHGRID_PROGRAM_ID", &cfg.Grid.ProgramID},
		{"COACHGRID_REMOTE_URL", &cfg.Remote.BaseURL},
		{"COACHGRID_REMOTE_API_KEY", &cfg.Remote.APIKey},
		{"COACHGRID_SERVER_ADDR", &cfg.Server.Addr},
		{"COACHGRID_SERVER_API_KEY", &cfg.Server.APIKey},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"COACHGRID_HISTORY_LIMIT", &cfg.Grid.HistoryLimit},
		{"COACHGRID_SEARCH_DEBOUNCE_MS", &cfg.Grid.SearchDebounceMS},
		{"COACHGRID_SEARCH_LIMIT", &cfg.Grid.SearchLimit},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", i.env, v)
		}
		*i.dst = n
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" && !c.Remote.Enabled() {
		return errors.New("db_path must be set")
	}
	if c.UI.ExerciseWidth < 10 {
		return fmt.Errorf("exercise_width must be at least 10, got %d", c.UI.ExerciseWidth)
	}
	if c.UI.WeekWidth < 8 {
		return fmt.Errorf("week_width must be at least 8, got %d", c.UI.WeekWidth)
	}
	if c.Grid.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.Grid.HistoryLimit)
	}
	if c.Grid.SearchDebounceMS < 0 {
		return fmt.Errorf("search_debounce_ms cannot be negative, got %d", c.Grid.SearchDebounceMS)
	}
	if c.Grid.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.Grid.SearchLimit)
	}
	if c.Remote.Enabled() {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote base_url must be an http(s) URL, got %q", c.Remote.BaseURL)
		}
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
