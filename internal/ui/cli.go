// Package ui implements the coachgrid command line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/api"
	"github.com/javiermolinar/coachgrid/internal/config"
	"github.com/javiermolinar/coachgrid/internal/db"
	"github.com/javiermolinar/coachgrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config    *config.Config
	root      *cobra.Command
	local     *db.SQLite
	remote    *api.HTTPClient
	programID string // --program
	debug     bool   // Enable debug logging
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "coachgrid",
		Short: "A keyboard driven grid editor for training programs",
		Long: `coachgrid edits multi-week training programs as a spreadsheet:
one row per exercise, one column per week, prescriptions like 5x3@85%
in the cells.

Run without arguments to open the grid editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			id, err := a.resolveProgram(cmd.Context(), store)
			if err != nil {
				return err
			}
			return tui.Run(store, store, a.config, id, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+tui.DebugLogPath+")")
	a.root.Flags().StringVarP(&a.programID, "program", "p", "", "Program id to open")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.seedCmd())
	a.root.AddCommand(a.programsCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coachgrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.local == nil {
		return nil
	}
	err := a.local.Close()
	a.local = nil
	return err
}

// localDB opens the SQLite database on first use.
func (a *App) localDB() (*db.SQLite, error) {
	if a.local != nil {
		return a.local, nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return nil, errors.New("no database configured: set storage.db_path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	store, err := db.New(path)
	if err != nil {
		return nil, err
	}
	a.local = store
	return store, nil
}

// store returns the remote server when one is configured and the local
// database otherwise.
func (a *App) store() (api.Store, error) {
	if a.config.Remote.Enabled() {
		if a.remote == nil {
			a.remote = api.NewHTTPClient(a.config.Remote.BaseURL, a.config.Remote.APIKey)
		}
		return a.remote, nil
	}
	return a.localDB()
}

// resolveProgram picks the program to open: the --program flag, then the
// configured program_id, then the most recently updated program.
func (a *App) resolveProgram(ctx context.Context, store api.Store) (string, error) {
	if a.programID != "" {
		return a.programID, nil
	}
	if a.config.Grid.ProgramID != "" {
		return a.config.Grid.ProgramID, nil
	}
	programs, err := store.ListPrograms(ctx)
	if err != nil {
		return "", fmt.Errorf("listing programs: %w", err)
	}
	if len(programs) == 0 {
		return "", errors.New("no programs yet: run 'coachgrid seed' or 'coachgrid import <file>'")
	}
	return programs[0].ID, nil
}
