package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/db"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/programfile"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Import a program from a YAML file",
		Long: `Import a program and the exercises it references from a YAML file
into the local database. A program with the same id is replaced.

Example:
  coachgrid import ~/programs/strength.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("program file does not exist: %s", path)
				}
				return fmt.Errorf("checking program file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("program file path is a directory: %s", path)
			}

			store, err := a.localDB()
			if err != nil {
				return err
			}
			p, count, err := importProgram(cmd.Context(), store, path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s) with %d exercises from %s\n",
				formatHeader(p.Name), p.ID, count, path)
			return nil
		},
	}

	return cmd
}

// importProgram stores the program held in path together with its catalog
// entries. It returns the program and the number of catalog entries saved.
func importProgram(ctx context.Context, dest *db.SQLite, path string) (*program.Program, int, error) {
	p, catalog, err := programfile.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	if len(catalog) > 0 {
		if err := dest.SaveExercises(ctx, catalog); err != nil {
			return nil, 0, fmt.Errorf("importing exercises: %w", err)
		}
	}

	known, err := dest.ExercisesByID(ctx, p.ExerciseIDs())
	if err != nil {
		return nil, 0, fmt.Errorf("resolving exercises: %w", err)
	}
	for _, id := range p.ExerciseIDs() {
		if _, ok := known[id]; !ok {
			return nil, 0, fmt.Errorf("exercise %s is not in the catalog", id)
		}
	}

	if err := dest.SaveProgram(ctx, p); err != nil {
		return nil, 0, fmt.Errorf("importing program %q: %w", p.Name, err)
	}
	return p, len(catalog), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
