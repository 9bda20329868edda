package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/javiermolinar/coachgrid/internal/grid"
	"github.com/javiermolinar/coachgrid/internal/notation"
)

// Stats holds aggregated counts for a program grid.
type Stats struct {
	Weeks        int
	Sessions     int
	Exercises    int
	Supersets    int
	FilledCells  int
	InvalidCells int
}

// TotalCells returns the number of prescription cells.
func (s Stats) TotalCells() int {
	return s.Exercises * s.Weeks
}

// FillPercent returns the share of prescription cells that hold text.
func (s Stats) FillPercent() int {
	if s.TotalCells() == 0 {
		return 0
	}
	return (s.FilledCells * 100) / s.TotalCells()
}

// ComputeStats counts the rows and cells of d.
func ComputeStats(d *grid.Data) Stats {
	weeks := d.WeekColumns()
	stats := Stats{Weeks: len(weeks)}
	groups := make(map[string]bool)

	for _, row := range d.Rows {
		switch row.Kind {
		case grid.RowSessionHeader:
			stats.Sessions++
		case grid.RowExercise:
			stats.Exercises++
			if row.InSuperset() && !groups[row.GroupID] {
				groups[row.GroupID] = true
				stats.Supersets++
			}
			for _, col := range weeks {
				if row.Prescriptions[col.ID] != "" {
					stats.FilledCells++
				}
				if row.Invalid[col.ID] {
					stats.InvalidCells++
				}
			}
		}
	}
	return stats
}

// PrintStats prints the stats summary lines.
func PrintStats(w io.Writer, stats Stats) {
	fmt.Fprintf(w, "%s | %s | %d exercises\n",
		formatHeader(fmt.Sprintf("Weeks: %d", stats.Weeks)),
		formatHeader(fmt.Sprintf("Sessions: %d", stats.Sessions)),
		stats.Exercises)
	if stats.Supersets > 0 {
		fmt.Fprintf(w, "Supersets: %s\n", formatSuperset(fmt.Sprintf("%d", stats.Supersets)))
	}
	fmt.Fprintf(w, "Filled: %s\n", FillBar(stats.FilledCells, stats.TotalCells(), 20))
	if stats.InvalidCells > 0 {
		fmt.Fprintf(w, "%s\n", formatWarn(fmt.Sprintf("%d cell(s) do not parse", stats.InvalidCells)))
	}
}

// FillBar creates a progress bar showing how many cells are prescribed.
func FillBar(filled, total, width int) string {
	if total == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% prescribed)"
	}

	pct := (filled * 100) / total
	n := (filled * width) / total

	bar := strings.Repeat("█", n) + strings.Repeat("░", width-n)
	return fmt.Sprintf("[%s] %s", formatSession(bar), formatStats(fmt.Sprintf("(%d%% prescribed)", pct)))
}

// rowTitle returns the exercise name prefixed with its group label.
func rowTitle(row grid.Row) string {
	if label := row.Label(); label != "" {
		return label + " " + row.ExerciseName
	}
	return row.ExerciseName
}

// GridTSV renders d as tab separated text: a header line with the week
// names, then one line per session and exercise.
func GridTSV(d *grid.Data) string {
	weeks := d.WeekColumns()

	var b strings.Builder
	b.WriteString("Exercise")
	for _, col := range weeks {
		b.WriteString("\t" + col.Name)
	}
	for _, row := range d.Rows {
		switch row.Kind {
		case grid.RowSessionHeader:
			b.WriteString("\n" + row.SessionName)
		case grid.RowExercise:
			b.WriteString("\n" + rowTitle(row))
			for _, col := range weeks {
				b.WriteString("\t" + row.Prescriptions[col.ID])
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}

var (
	tableBorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableHeaderStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableSessionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	tableCellStyle    = lipgloss.NewStyle().Padding(0, 1)
	tableEmptyStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	tableInvalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Underline(true).Padding(0, 1)
)

// RenderGridTable renders d as a bordered table no wider than width.
func RenderGridTable(d *grid.Data, width int) string {
	weeks := d.WeekColumns()
	headers := []string{"Exercise"}
	for _, col := range weeks {
		headers = append(headers, col.Name)
	}

	var rows [][]string
	var kinds []grid.Row
	for _, row := range d.Rows {
		switch row.Kind {
		case grid.RowSessionHeader:
			cells := make([]string, len(headers))
			cells[0] = row.SessionName
			rows = append(rows, cells)
			kinds = append(kinds, row)
		case grid.RowExercise:
			cells := []string{rowTitle(row)}
			for _, col := range weeks {
				cells = append(cells, notation.Display(row.Prescriptions[col.ID]))
			}
			rows = append(rows, cells)
			kinds = append(kinds, row)
		}
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		BorderRow(false).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == table.HeaderRow {
				return tableHeaderStyle
			}
			if r < 0 || r >= len(kinds) {
				return tableCellStyle
			}
			row := kinds[r]
			switch {
			case row.Kind == grid.RowSessionHeader:
				return tableSessionStyle
			case c == 0:
				return tableCellStyle
			case c-1 < len(weeks) && row.Invalid[weeks[c-1].ID]:
				return tableInvalidStyle
			case c-1 < len(weeks) && row.Prescriptions[weeks[c-1].ID] == "":
				return tableEmptyStyle
			}
			return tableCellStyle
		})
	out := t.Render()
	if width > 0 && lipgloss.Width(out) > width {
		out = t.Width(width).Render()
	}
	return out
}
