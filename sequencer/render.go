package sequencer

import (
	"strings"

	"go-drumcli/beat"
)

// Grid is a track drawn at a fixed number of steps per beat.
type Grid struct {
	Divisions int
	Cells     []bool
	// Omitted counts notes that fall between steps and are not drawn.
	Omitted int
}

// Render maps every note of t onto a grid of length*divisions steps.
func Render(t *Track, divisions int) Grid {
	g := Grid{
		Divisions: divisions,
		Cells:     make([]bool, t.Length()*divisions),
	}
	for _, n := range t.notes.All() {
		i, ok := n.Pos.Index(divisions)
		if !ok || i >= len(g.Cells) {
			g.Omitted++
			continue
		}
		g.Cells[i] = true
	}
	return g
}

// String draws the grid as x for notes and . for rests, with a bar between
// beats: x.x.|....
func (g Grid) String() string {
	var b strings.Builder
	for i, on := range g.Cells {
		if i > 0 && g.Divisions > 0 && i%g.Divisions == 0 {
			b.WriteByte('|')
		}
		if on {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Step returns the grid step containing phase, for drawing a playhead.
func (g Grid) Step(phase float64) int {
	if len(g.Cells) == 0 {
		return -1
	}
	i := int(phase * float64(g.Divisions))
	if i < 0 || i >= len(g.Cells) {
		return -1
	}
	return i
}

// TrackView is a copy of one track for display.
type TrackView struct {
	Slot     int
	Name     string
	Length   int
	Notes    []beat.Pos
	Grid     Grid
	Phase    float64
	Playing  bool
	Selected bool
}

// Label is the note list as Track.String prints it.
func (v TrackView) Label() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, p := range v.Notes {
		b.WriteString(p.String())
		b.WriteByte(' ')
	}
	b.WriteString("]")
	return b.String()
}

// View is a consistent copy of the whole registry.
type View struct {
	BPM       int
	Divisions int
	Beat      float64
	Selected  int
	Tracks    []TrackView
	Dropped   uint64
}

func snapshot(s *State) View {
	v := View{
		BPM:       s.bpm,
		Divisions: s.divisions,
		Beat:      s.Beat(),
		Selected:  s.selected,
	}
	for i, t := range s.tracks {
		if t == nil {
			continue
		}
		tv := TrackView{
			Slot:     i,
			Name:     t.sampleName(),
			Length:   t.Length(),
			Notes:    t.Notes(),
			Grid:     Render(t, s.divisions),
			Phase:    t.phase(v.Beat),
			Selected: i == s.selected,
		}
		if t.sample != nil {
			tv.Playing = t.sample.IsPlaying()
		}
		v.Tracks = append(v.Tracks, tv)
	}
	return v
}
