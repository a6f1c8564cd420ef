package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-drumcli/beat"
	"go-drumcli/command"
	"go-drumcli/sample"
	"go-drumcli/sequencer"
	"go-drumcli/theme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	mixer := sequencer.NewMixer(sequencer.NewState(&sequencer.ManualClock{}, 120, 2))
	interp := command.New(mixer, sample.NewSilentBackend(), 4)
	return NewModel(mixer, interp, theme.New(nil))
}

func typeLine(m Model, line string) Model {
	m.input.SetValue(line)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestEnterRunsCommand(t *testing.T) {
	m := newTestModel(t)
	m = typeLine(m, "a kick.wav")
	m = typeLine(m, "s 0")

	if m.input.Value() != "" {
		t.Error("input should clear after enter")
	}
	if len(m.view.Tracks) != 1 || !m.view.Tracks[0].Selected {
		t.Fatalf("view not refreshed: %+v", m.view)
	}
	out := m.View()
	for _, want := range []string{"Created track 0 with sample kick.wav", "kick.wav", "120bpm"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("q")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model renders nothing")
	}
}

func TestHistory(t *testing.T) {
	m := newTestModel(t)
	m = typeLine(m, "d 4")
	m = typeLine(m, "b 90")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "b 90" {
		t.Errorf("up = %q, want last command", m.input.Value())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "d 4" {
		t.Errorf("up twice = %q", m.input.Value())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.input.Value() != "" {
		t.Errorf("down past the end should clear, got %q", m.input.Value())
	}
}

func TestClickTogglesStep(t *testing.T) {
	m := newTestModel(t)
	m = typeLine(m, "a kick.wav")

	// grid "··│··│··│··": column 3 is the first step after the bar, step 2
	next, _ := m.Update(tea.MouseMsg{
		X:      rowPrefixWidth + 3,
		Y:      rowsTop,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(Model)

	var notes []beat.Pos
	m.Mixer.Edit(func(s *sequencer.State) error {
		notes = s.Track(0).Notes()
		return nil
	})
	if len(notes) != 1 || !notes[0].Equal(beat.Beats(1)) {
		t.Errorf("notes = %v, want [1]", notes)
	}

	// the name column selects
	next, _ = m.Update(tea.MouseMsg{X: 2, Y: rowsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !next.(Model).view.Tracks[0].Selected {
		t.Error("clicking the name should select the track")
	}
}

func TestFitName(t *testing.T) {
	if got := fitName("/kits/808/kick.wav"); got != "kick.wav        " {
		t.Errorf("fitName = %q", got)
	}
	if got := fitName("a-very-long-sample-name.wav"); len([]rune(got)) != nameWidth || !strings.HasSuffix(got, "~") {
		t.Errorf("fitName = %q", got)
	}
}
