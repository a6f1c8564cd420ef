package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleGPL = `GIMP Palette
Name: Test
Columns: 2
# comment
  0   0   0	black
255 255 255	white
300 0 0	out of range
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(sampleGPL))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Test" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("Colors = %v, want 2 entries", p.Colors)
	}
}

func TestParseGPLEmpty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("want error for a palette with no colors")
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	if err := os.WriteFile(path, []byte(sampleGPL), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadGPL(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}
	if _, err := LoadGPL(filepath.Join(t.TempDir(), "missing.gpl")); err == nil {
		t.Error("want error for a missing file")
	}
}

func TestLookupClamps(t *testing.T) {
	p := DefaultPalette()
	if p.Lookup(-1) != p.Colors[0] || p.Lookup(2) != p.Colors[len(p.Colors)-1] {
		t.Error("Lookup should clamp to the ends")
	}
	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	if single.Lookup(0.7) != (RGB{1, 2, 3}) {
		t.Error("single-color palette should always return its color")
	}
}

func TestStepGlyphs(t *testing.T) {
	th := New(nil)
	tests := []struct {
		active, playhead bool
		want             rune
	}{
		{false, false, '·'},
		{true, false, '●'},
		{false, true, '▷'},
		{true, true, '▶'},
	}
	for _, tt := range tests {
		if got := th.Step(tt.active, tt.playhead); got != tt.want {
			t.Errorf("Step(%v, %v) = %q, want %q", tt.active, tt.playhead, got, tt.want)
		}
	}
	if got := string(th.BG()); got != "#1a102b" {
		t.Errorf("BG() = %s", got)
	}
}
