package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/api"
	"github.com/javiermolinar/coachgrid/internal/grid"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show [program_id]",
		Short: "Print a program grid",
		Long: `Print a program as a table: one row per exercise, one column per
week. Without an id the program the editor would open is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				a.programID = args[0]
			}
			id, err := a.resolveProgram(cmd.Context(), store)
			if err != nil {
				return err
			}
			d, name, err := loadGrid(cmd.Context(), store, id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(name))
			fmt.Fprintln(w, RenderGridTable(d, termWidth()))
			fmt.Fprintln(w)
			PrintStats(w, ComputeStats(d))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// loadGrid loads a program with its exercise names and flattens it.
func loadGrid(ctx context.Context, store api.Store, id string) (*grid.Data, string, error) {
	p, err := store.LoadProgram(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("loading program %s: %w", id, err)
	}
	exercises, err := store.ExercisesByID(ctx, p.ExerciseIDs())
	if err != nil {
		return nil, "", fmt.Errorf("resolving exercises: %w", err)
	}
	names := make(map[string]string, len(exercises))
	for id, ex := range exercises {
		names[id] = ex.Name
	}
	return grid.Transform(p, names), p.Name, nil
}
