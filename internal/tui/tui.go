package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/coachgrid/internal/config"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
	"github.com/javiermolinar/coachgrid/internal/tui/commands"
)

// Run starts the grid editor on programID. Mutations go to sink through
// an outbox; whatever is still pending when the program exits is flushed
// before Run returns.
func Run(store commands.Store, sink program.MutationSink, cfg *config.Config, programID string, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	box := outbox.New(sink, outbox.WithLogger(debugSlog()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := box.Flush(ctx); err != nil {
			LogError("flush on exit", err)
		}
		_ = box.Close()
	}()

	model := New(store, box, cfg, programID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
