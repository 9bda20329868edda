package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe, got %s", cfg.UI.Theme)
	}
	if cfg.Grid.HistoryLimit != 100 {
		t.Errorf("expected history_limit 100, got %d", cfg.Grid.HistoryLimit)
	}
	if cfg.Grid.SearchDebounce() != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %s", cfg.Grid.SearchDebounce())
	}
	if cfg.Grid.SearchLimit != 20 {
		t.Errorf("expected search_limit 20, got %d", cfg.Grid.SearchLimit)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Remote.Enabled() {
		t.Error("expected remote to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Grid.HistoryLimit != 100 {
		t.Errorf("expected default history_limit, got %d", cfg.Grid.HistoryLimit)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[storage]
db_path = "/tmp/test.db"

[ui]
theme = "mocha"
exercise_width = 36

[grid]
program_id = "prg-1"
history_limit = 50
search_debounce_ms = 100

[remote]
base_url = "http://localhost:9090"
api_key = "secret"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if cfg.UI.ExerciseWidth != 36 {
		t.Errorf("expected exercise_width 36, got %d", cfg.UI.ExerciseWidth)
	}
	// Unset keys keep their defaults
	if cfg.UI.WeekWidth != 24 {
		t.Errorf("expected default week_width 24, got %d", cfg.UI.WeekWidth)
	}
	if cfg.Grid.ProgramID != "prg-1" {
		t.Errorf("expected program_id prg-1, got %s", cfg.Grid.ProgramID)
	}
	if cfg.Grid.HistoryLimit != 50 {
		t.Errorf("expected history_limit 50, got %d", cfg.Grid.HistoryLimit)
	}
	if cfg.Grid.SearchDebounce() != 100*time.Millisecond {
		t.Errorf("expected 100ms debounce, got %s", cfg.Grid.SearchDebounce())
	}
	if !cfg.Remote.Enabled() || cfg.Remote.APIKey != "secret" {
		t.Errorf("unexpected remote config: %+v", cfg.Remote)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nhistory_limit = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[storage]
db_path = "/tmp/test.db"

[grid]
program_id = "prg-file"
search_limit = 10
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("COACHGRID_PROGRAM_ID", "prg-env")
	t.Setenv("COACHGRID_HISTORY_LIMIT", "7")
	t.Setenv("COACHGRID_SERVER_API_KEY", "k")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Grid.ProgramID != "prg-env" {
		t.Errorf("expected program_id prg-env from env, got %s", cfg.Grid.ProgramID)
	}
	// File value should be kept when no env override
	if cfg.Grid.SearchLimit != 10 {
		t.Errorf("expected search_limit 10 from file, got %d", cfg.Grid.SearchLimit)
	}
	// Env should override default
	if cfg.Grid.HistoryLimit != 7 {
		t.Errorf("expected history_limit 7 from env, got %d", cfg.Grid.HistoryLimit)
	}
	if cfg.Server.APIKey != "k" {
		t.Errorf("expected server api key from env, got %q", cfg.Server.APIKey)
	}
}

func TestLoadFrom_EnvNotInteger(t *testing.T) {
	t.Setenv("COACHGRID_SEARCH_LIMIT", "many")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for non-integer env override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"narrow exercise column", func(c *Config) { c.UI.ExerciseWidth = 4 }},
		{"narrow week column", func(c *Config) { c.UI.WeekWidth = 2 }},
		{"zero history", func(c *Config) { c.Grid.HistoryLimit = 0 }},
		{"negative debounce", func(c *Config) { c.Grid.SearchDebounceMS = -1 }},
		{"zero search limit", func(c *Config) { c.Grid.SearchLimit = 0 }},
		{"remote not a url", func(c *Config) { c.Remote.BaseURL = "localhost:8080" }},
		{"remote ftp", func(c *Config) { c.Remote.BaseURL = "ftp://example.com" }},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_RemoteWithoutDBPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.DBPath = ""
	cfg.Remote.BaseURL = "https://coach.example.com"

	if err := cfg.Validate(); err != nil {
		t.Errorf("remote config should not need a db path: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Storage.DBPath = filepath.Join(tmpDir, "grid.db")
	cfg.UI.Theme = "latte"
	cfg.Grid.ProgramID = "prg-saved"
	cfg.Grid.SearchDebounceMS = 0

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", loaded.UI.Theme)
	}
	if loaded.Grid.ProgramID != "prg-saved" {
		t.Errorf("expected program_id prg-saved, got %s", loaded.Grid.ProgramID)
	}
	if loaded.Grid.SearchDebounceMS != 0 {
		t.Errorf("expected debounce 0, got %d", loaded.Grid.SearchDebounceMS)
	}
	if loaded.Storage.DBPath != cfg.Storage.DBPath {
		t.Errorf("expected db_path %s, got %s", cfg.Storage.DBPath, loaded.Storage.DBPath)
	}
}
