package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) programsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "programs",
		Aliases: []string{"ls"},
		Short:   "List stored programs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			programs, err := store.ListPrograms(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing programs: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(programs) == 0 {
				fmt.Fprintln(w, "No programs yet. Run 'coachgrid seed' or 'coachgrid import <file>'.")
				return nil
			}
			for _, p := range programs {
				fmt.Fprintf(w, "  %-28s %s  %s\n",
					p.ID,
					formatHeader(p.Name),
					formatMuted(fmt.Sprintf("%d weeks · %s · updated %s", p.Weeks, p.Status, p.UpdatedAt.Local().Format("2006-01-02 15:04"))))
			}
			return nil
		},
	}
}
