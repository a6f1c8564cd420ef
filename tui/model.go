package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-drumcli/beat"
	"go-drumcli/command"
	"go-drumcli/debug"
	"go-drumcli/sequencer"
	"go-drumcli/theme"
	"go-drumcli/widgets"
)

// Screen refresh rate
const fps = 30

// Layout constants used by both View and mouse hit testing
const (
	rowsTop    = 3  // blank line, header, blank line
	nameWidth  = 16 // sample column
	maxReplies = 8
)

// rowPrefixWidth covers "▸ 12 kick.wav         " before the grid.
const rowPrefixWidth = 1 + 1 + 2 + 1 + nameWidth + 1

type Model struct {
	Mixer  *sequencer.Mixer
	Interp *command.Interpreter
	Theme  *theme.Theme

	input    textinput.Model
	replies  []string
	history  []string
	histPos  int
	view     sequencer.View
	showKeys bool
	quitting bool
}

var keyHelp = []widgets.KeySection{
	{Title: "Keys", Keys: []widgets.KeyBinding{
		{Key: "enter", Desc: "run the command line"},
		{Key: "up/down", Desc: "command history"},
		{Key: "click step", Desc: "toggle a note"},
		{Key: "click name", Desc: "select a track"},
		{Key: "f1", Desc: "show or hide this help"},
		{Key: "ctrl+c", Desc: "quit"},
	}},
}

type UpdateMsg struct{}

type TickMsg time.Time

func NewModel(mixer *sequencer.Mixer, interp *command.Interpreter, th *theme.Theme) Model {
	ti := textinput.New()
	ti.Prompt = command.Prompt
	ti.Placeholder = `type "help"`
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()
	return Model{
		Mixer:  mixer,
		Interp: interp,
		Theme:  th,
		input:  ti,
		view:   mixer.Snapshot(),
	}
}

// WithReplies shows lines in the reply area, e.g. the results of loading
// startup samples.
func (m Model) WithReplies(lines []string) Model {
	for _, l := range lines {
		m.pushReply(l)
	}
	return m
}

// ListenForUpdates waits for the next note to fire.
func ListenForUpdates(mixer *sequencer.Mixer) tea.Cmd {
	return func() tea.Msg {
		<-mixer.UpdateChan
		return UpdateMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		ListenForUpdates(m.Mixer),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.exec()

		case "f1":
			m.showKeys = !m.showKeys
			return m, nil

		case "up":
			if m.histPos > 0 {
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histPos < len(m.history) {
				m.histPos++
				if m.histPos == len(m.history) {
					m.input.Reset()
				} else {
					m.input.SetValue(m.history[m.histPos])
					m.input.CursorEnd()
				}
			}
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
		return m, nil

	case UpdateMsg:
		m.view = m.Mixer.Snapshot()
		return m, ListenForUpdates(m.Mixer)

	case TickMsg:
		m.view = m.Mixer.Snapshot()
		return m, tick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) exec() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.histPos = len(m.history)

	reply := m.Interp.Exec(line)
	m.pushReply(command.Prompt + line)
	for _, l := range strings.Split(reply, "\n") {
		if l != "" {
			m.pushReply(l)
		}
	}
	m.view = m.Mixer.Snapshot()

	if m.Interp.Quit() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) pushReply(line string) {
	m.replies = append(m.replies, line)
	if len(m.replies) > maxReplies {
		m.replies = m.replies[len(m.replies)-maxReplies:]
	}
}

// click toggles the step under the mouse, or selects the track when the
// name column is clicked.
func (m *Model) click(x, y int) {
	i := y - rowsTop
	if i < 0 || i >= len(m.view.Tracks) {
		return
	}
	tv := m.view.Tracks[i]
	if x < rowPrefixWidth {
		m.Mixer.Edit(func(s *sequencer.State) error {
			if s.Track(tv.Slot) != nil {
				s.Select(tv.Slot)
			}
			return nil
		})
		m.view = m.Mixer.Snapshot()
		return
	}

	row := widgets.StepRow{Grid: tv.Grid}
	step, ok := row.StepAt(x - rowPrefixWidth)
	if !ok {
		return
	}
	m.Mixer.Edit(func(s *sequencer.State) error {
		t := s.Track(tv.Slot)
		if t == nil {
			return nil
		}
		pos := beat.FromIndex(step, s.Divisions())
		if pos.Before(t.Length()) {
			t.ToggleNote(pos)
			debug.Log("tui", "mouse toggle track=%d step=%d", tv.Slot, step)
		}
		return nil
	})
	m.view = m.Mixer.Snapshot()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	nameStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	replyStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	v := m.view
	header := headerStyle.Render(fmt.Sprintf("drumcli  %3dbpm  %d/beat  beat:%7.2f", v.BPM, v.Divisions, v.Beat))
	if v.Dropped > 0 {
		header += dimStyle.Render(fmt.Sprintf("  dropped:%d", v.Dropped))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	if len(v.Tracks) == 0 {
		out.WriteString(dimStyle.Render(`no tracks, "add <sample>" to start`))
		out.WriteString("\n")
	}
	for _, tv := range v.Tracks {
		mark := " "
		if tv.Selected {
			mark = selStyle.Render(string(m.Theme.Symbols.Selected))
		}
		row := widgets.StepRow{Grid: tv.Grid, Playhead: tv.Grid.Step(tv.Phase)}
		fmt.Fprintf(&out, "%s %2d %s %s", mark, tv.Slot, nameStyle.Render(fitName(tv.Name)), row.Render(m.Theme))
		if tv.Grid.Omitted > 0 {
			out.WriteString(dimStyle.Render(fmt.Sprintf(" +%d", tv.Grid.Omitted)))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	for _, r := range m.replies {
		out.WriteString(replyStyle.Render(r))
		out.WriteString("\n")
	}
	out.WriteString(m.input.View())
	out.WriteString("\n\n")
	if m.showKeys {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	} else {
		out.WriteString(dimStyle.Render(`f1:keys  "help":commands  ctrl+c:quit`))
	}
	return out.String()
}

// fitName pads or cuts the sample's base name to the name column.
func fitName(name string) string {
	base := []rune(filepath.Base(name))
	if len(base) > nameWidth {
		base = append(base[:nameWidth-1], '~')
	}
	return fmt.Sprintf("%-*s", nameWidth, string(base))
}
