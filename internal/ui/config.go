package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/config"
	"github.com/javiermolinar/coachgrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  coachgrid config
  coachgrid config --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show {
				printConfig(cmd.OutOrStdout(), a.config)
				return nil
			}
			return runConfigInteractive(cmd.OutOrStdout(), os.Stdin)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the configuration and exit")
	return cmd
}

func runConfigInteractive(w io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(w, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(w, reader, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

func editConfig(w io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Storage.DBPath = promptValue(w, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(w, reader, cfg.UI.Theme)
	cfg.UI.ExerciseWidth = promptInt(w, reader, "Exercise column width", cfg.UI.ExerciseWidth)
	cfg.UI.WeekWidth = promptInt(w, reader, "Week column width", cfg.UI.WeekWidth)
	cfg.Grid.ProgramID = promptValue(w, reader, "Default program id (empty for most recent)", cfg.Grid.ProgramID)
	cfg.Grid.HistoryLimit = promptInt(w, reader, "Undo history limit", cfg.Grid.HistoryLimit)
	cfg.Grid.SearchDebounceMS = promptInt(w, reader, "Search debounce (ms)", cfg.Grid.SearchDebounceMS)
	cfg.Remote.BaseURL = promptValue(w, reader, "Remote server URL (empty for local database)", cfg.Remote.BaseURL)
	cfg.Server.Addr = promptValue(w, reader, "Serve address", cfg.Server.Addr)
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, formatHeader("Current configuration:"))
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[storage]")
	fmt.Fprintf(w, "  db_path            = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme              = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  exercise_width     = %d\n", cfg.UI.ExerciseWidth)
	fmt.Fprintf(w, "  week_width         = %d\n", cfg.UI.WeekWidth)
	fmt.Fprintln(w, "\n[grid]")
	fmt.Fprintf(w, "  program_id         = %s\n", cfg.Grid.ProgramID)
	fmt.Fprintf(w, "  history_limit      = %d\n", cfg.Grid.HistoryLimit)
	fmt.Fprintf(w, "  search_debounce_ms = %d\n", cfg.Grid.SearchDebounceMS)
	fmt.Fprintf(w, "  search_limit       = %d\n", cfg.Grid.SearchLimit)
	if cfg.Remote.Enabled() {
		fmt.Fprintln(w, "\n[remote]")
		fmt.Fprintf(w, "  base_url           = %s\n", cfg.Remote.BaseURL)
		fmt.Fprintf(w, "  api_key            = %s\n", maskSecret(cfg.Remote.APIKey))
	}
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr               = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  api_key            = %s\n", maskSecret(cfg.Server.APIKey))
}

func maskSecret(s string) string {
	if s == "" {
		return formatMuted("(none)")
	}
	return "********"
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q\n", value)
	}
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s or a .toml path)", options)
	for {
		value := promptValue(w, reader, label, current)
		if strings.HasSuffix(value, ".toml") || theme.IsAvailable(strings.ToLower(value)) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
