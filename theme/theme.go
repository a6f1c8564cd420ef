// Package theme maps a palette onto the colors and glyphs of the step grid.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	StepEmpty      rune // · rest
	StepActive     rune // ● note
	StepPlayhead   rune // ▷ playhead on a rest
	PlayheadActive rune // ▶ playhead on a note
	BeatBar        rune // │ between beats
	Selected       rune // ▸ selected track
}

// New builds a theme on palette, or on DefaultPalette when palette is nil.
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:      '·',
			StepActive:     '●',
			StepPlayhead:   '▷',
			PlayheadActive: '▶',
			BeatBar:        '│',
			Selected:       '▸',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.1
	RoleMuted   = 0.25
	RoleFG      = 0.45
	RoleAccent  = 0.5
	RoleActive  = 0.65
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Hex(t.Palette.Lookup(norm))
}

// Step picks the glyph for one grid cell.
func (t *Theme) Step(active, playhead bool) rune {
	switch {
	case active && playhead:
		return t.Symbols.PlayheadActive
	case playhead:
		return t.Symbols.StepPlayhead
	case active:
		return t.Symbols.StepActive
	}
	return t.Symbols.StepEmpty
}

// Hex formats c as a lipgloss color.
func Hex(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
