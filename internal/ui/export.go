package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/coachgrid/internal/api"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/programfile"
)

func (a *App) exportCmd() *cobra.Command {
	var out string
	var copyTSV bool

	cmd := &cobra.Command{
		Use:   "export [program_id]",
		Short: "Export a program as YAML",
		Long: `Export a program and the exercises it uses as YAML, to stdout or a
file. With --copy the grid is put on the clipboard as tab separated
text, ready to paste into a spreadsheet.

Example:
  coachgrid export prg-demo-strength --out strength.yaml
  coachgrid export --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if copyTSV {
				d, name, err := loadGrid(cmd.Context(), store, id)
				if err != nil {
					return err
				}
				if err := clipboard.WriteAll(GridTSV(d)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to clipboard\n", name)
				return nil
			}

			p, catalog, err := loadExport(cmd.Context(), store, id)
			if err != nil {
				return err
			}
			if out == "" {
				return programfile.Encode(cmd.OutOrStdout(), programfile.FromProgram(p, catalog))
			}
			path, err := resolvePath(out)
			if err != nil {
				return err
			}
			if err := programfile.WriteFile(path, p, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", id, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&copyTSV, "copy", false, "Copy the grid to the clipboard as tab separated text")
	return cmd
}

// loadExport loads program id and the catalog entries it references.
func loadExport(ctx context.Context, store api.Store, id string) (*program.Program, map[string]program.Exercise, error) {
	p, err := store.LoadProgram(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading program %s: %w", id, err)
	}
	catalog, err := store.ExercisesByID(ctx, p.ExerciseIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("resolving exercises: %w", err)
	}
	return p, catalog, nil
}
