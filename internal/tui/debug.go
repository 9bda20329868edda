package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/outbox"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// DebugLogger logs TUI state, keystrokes, and events to a file.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.Writer
	closer  io.Closer
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "coachgrid-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	startDebugLogger(f, f)
	return nil
}

func startDebugLogger(w io.Writer, c io.Closer) {
	debugLog = &DebugLogger{
		out:     w,
		closer:  c,
		enabled: true,
	}
	debugLog.log("DEBUG_START", map[string]any{
		"log_file": DebugLogPath,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	if debugLog.closer != nil {
		_ = debugLog.closer.Close()
	}
	debugLog = nil
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.out == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.out, "%s\n", b)
}

// Write lets other loggers share the debug file.
func (d *DebugLogger) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.Write(p)
}

// debugSlog returns a logger that writes JSON lines to the debug log, or
// discards output when debugging is off.
func debugSlog() *slog.Logger {
	if debugLog == nil || !debugLog.enabled {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewJSONHandler(debugLog, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key":   msg.String(),
		"paste": msg.Paste,
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

// LogCursorMove logs a change of the active cell.
func LogCursorMove(from, to grid.Address, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("CURSOR_MOVE", map[string]any{
		"from_row": from.RowID,
		"from_col": from.ColID,
		"row":      to.RowID,
		"col":      to.ColID,
		"reason":   reason,
	})
}

// LogCommand logs a mutation produced by the grid.
func LogCommand(kind grid.CommandKind, m program.Mutation) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("COMMAND", map[string]any{
		"command":  string(kind),
		"mutation": truncateStr(m.String(), 80),
	})
}

// LogOutbox logs a delivery result.
func LogOutbox(r outbox.Result, stats outbox.Stats) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{
		"seq":       r.Entry.Seq,
		"attempts":  r.Entry.Attempts,
		"mutation":  truncateStr(r.Entry.Mutation.String(), 80),
		"pending":   stats.Pending,
		"failed":    stats.Failed,
		"delivered": stats.Delivered,
	}
	if r.Err != nil {
		data["error"] = r.Err.Error()
	}
	debugLog.log("OUTBOX", data)
}

// LogError logs an error.
func LogError(context string, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeLoading:
		return "Loading"
	case ModeLoadError:
		return "LoadError"
	case ModeViewing:
		return "Viewing"
	case ModeEditing:
		return "Editing"
	case ModeSearch:
		return "Search"
	case ModeConfirmDelete:
		return "ConfirmDelete"
	case ModeDragging:
		return "Dragging"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// truncateStr truncates a string to max length.
func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
