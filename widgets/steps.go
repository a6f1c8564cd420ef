package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-drumcli/sequencer"
	"go-drumcli/theme"
)

// StepRow draws one track grid. Each step takes one column and a bar is
// drawn between beats, so hit testing has to account for the bars.
type StepRow struct {
	Grid     sequencer.Grid
	Playhead int // step under the playhead, -1 for none
}

// Render draws the row with the theme's glyphs and colors.
func (r StepRow) Render(th *theme.Theme) string {
	on := lipgloss.NewStyle().Foreground(th.Active())
	off := lipgloss.NewStyle().Foreground(th.Muted())
	head := lipgloss.NewStyle().Foreground(th.Success()).Bold(true)
	bar := lipgloss.NewStyle().Foreground(th.Surface())

	var out strings.Builder
	for i, active := range r.Grid.Cells {
		if i > 0 && r.Grid.Divisions > 0 && i%r.Grid.Divisions == 0 {
			out.WriteString(bar.Render(string(th.Symbols.BeatBar)))
		}
		glyph := string(th.Step(active, i == r.Playhead))
		switch {
		case i == r.Playhead:
			out.WriteString(head.Render(glyph))
		case active:
			out.WriteString(on.Render(glyph))
		default:
			out.WriteString(off.Render(glyph))
		}
	}
	return out.String()
}

// Width is the number of terminal columns Render uses.
func (r StepRow) Width() int {
	n := len(r.Grid.Cells)
	if n == 0 || r.Grid.Divisions <= 0 {
		return n
	}
	return n + (n-1)/r.Grid.Divisions
}

// StepAt maps a column relative to the start of the row back to a step.
// ok is false for bars and columns outside the row.
func (r StepRow) StepAt(col int) (step int, ok bool) {
	if col < 0 || col >= r.Width() {
		return 0, false
	}
	d := r.Grid.Divisions
	if d <= 0 {
		return col, true
	}
	// every beat occupies d cells plus one bar column
	if col%(d+1) == d {
		return 0, false
	}
	return col - col/(d+1), true
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
