package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/db"
	"github.com/javiermolinar/coachgrid/internal/seed"
)

func (a *App) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo program and exercise catalog",
		Long: `Store the demo program "Max Strength - Phase 1" and its exercise
catalog in the local database. Running it again resets the demo program.

Example:
  coachgrid seed
  coachgrid --program ` + seed.ProgramID,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.localDB()
			if err != nil {
				return err
			}
			if err := seedDemo(cmd.Context(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (%s)\n", formatHeader(seed.Program().Name), seed.ProgramID)
			return nil
		},
	}
}

func seedDemo(ctx context.Context, store *db.SQLite) error {
	if err := store.SaveExercises(ctx, seed.Exercises()); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	if err := store.SaveProgram(ctx, seed.Program()); err != nil {
		return fmt.Errorf("saving demo program: %w", err)
	}
	return nil
}
