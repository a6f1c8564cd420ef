// Package command interprets the line-based drumcli command language.
//
// Each line is a command word with an optional argument, e.g. "t 3". Short
// forms are accepted for every command except help and about. Replies are
// plain text, one or more lines without a trailing newline.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-drumcli/beat"
	"go-drumcli/debug"
	"go-drumcli/sample"
	"go-drumcli/sequencer"
)

// Prompt is printed before every line read by Repl.
const Prompt = "DRUMCLI > "

// Output is a sound device with a master volume, such as
// sample.BeepBackend.
type Output interface {
	SetVolume(halvings float64)
	SetMuted(muted bool)
}

// Interpreter turns command lines into edits of a mixer's state.
type Interpreter struct {
	mixer        *sequencer.Mixer
	loader       sample.Loader
	defaultBeats int
	quit         bool

	out   Output
	muted bool
}

// New builds an interpreter. New tracks get defaultBeats beats, or
// sequencer.DefaultBeats when it is not positive.
func New(m *sequencer.Mixer, loader sample.Loader, defaultBeats int) *Interpreter {
	if defaultBeats < 1 {
		defaultBeats = sequencer.DefaultBeats
	}
	return &Interpreter{mixer: m, loader: loader, defaultBeats: defaultBeats}
}

// SetOutput enables the volume and mute commands.
func (in *Interpreter) SetOutput(out Output) { in.out = out }

// Quit reports whether a quit command has been run.
func (in *Interpreter) Quit() bool { return in.quit }

// Exec runs one command line and returns the reply. Blank lines reply with
// an empty string.
func (in *Interpreter) Exec(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	cmd, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	debug.Log("command", "exec %q arg=%q", cmd, arg)

	switch cmd {
	case "q", "quit":
		in.quit = true
		return "Exiting..."
	case "help":
		return helpText
	case "about":
		return aboutText
	case "a", "add":
		return in.Add(arg)
	case "r", "remove":
		return in.remove()
	case "s", "select":
		return in.selectTrack(arg)
	case "t", "toggle":
		return in.toggle(arg)
	case "l", "length":
		return in.length(arg)
	case "d", "divisions":
		return in.divisions(arg)
	case "b", "bpm":
		return in.bpm(arg)
	case "p", "print":
		return Print(in.mixer.Snapshot())
	case "v", "volume":
		return in.volume(arg)
	case "m", "mute":
		return in.mute()
	}
	return `Invalid command, enter "help" for help`
}

// Add loads path and puts it on a new track. The sample is loaded before
// the state is locked so a slow decode never holds up playback.
func (in *Interpreter) Add(path string) string {
	if path == "" {
		return "Please provide a path to the sample"
	}
	smp, err := in.loader.Load(path)
	if err != nil {
		debug.Log("command", "load %s: %v", path, err)
		return fmt.Sprintf("Could not load sample %s: %v", path, err)
	}

	var slot int
	err = in.mixer.Edit(func(s *sequencer.State) error {
		var err error
		slot, err = s.AddTrack(smp, in.defaultBeats)
		return err
	})
	if errors.Is(err, sequencer.ErrRegistryFull) {
		smp.Close()
		return "You have reached the maximum number of allowed tracks"
	}
	if err != nil {
		smp.Close()
		return err.Error()
	}
	return fmt.Sprintf("Created track %d with sample %s", slot, path)
}

var errNoSelection = errors.New("no track selected")

func replyErr(err error) string {
	if errors.Is(err, errNoSelection) {
		return "Select a track first"
	}
	return err.Error()
}

func (in *Interpreter) remove() string {
	var slot int
	err := in.mixer.Edit(func(s *sequencer.State) error {
		i, ok := s.Selected()
		if !ok {
			return errNoSelection
		}
		slot = i
		return s.RemoveTrack(i)
	})
	if err != nil {
		return replyErr(err)
	}
	return fmt.Sprintf("Removed track %d", slot)
}

func (in *Interpreter) selectTrack(arg string) string {
	if arg == "" {
		return "Please provide a track number to select"
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n >= sequencer.NumTracks {
		return "Invalid track number"
	}
	var found bool
	in.mixer.Edit(func(s *sequencer.State) error {
		if s.Track(n) != nil {
			s.Select(n)
			found = true
		}
		return nil
	})
	if !found {
		return "Invalid track number"
	}
	return fmt.Sprintf("Selected track %d", n)
}

func (in *Interpreter) toggle(arg string) string {
	if arg == "" {
		return "Please provide a note index to toggle"
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return "Invalid note index"
	}

	var reply string
	err = in.mixer.Edit(func(s *sequencer.State) error {
		slot, ok := s.Selected()
		if !ok {
			return errNoSelection
		}
		t := s.Track(slot)
		if index < 0 {
			reply = "Invalid note index"
			return nil
		}
		pos := beat.FromIndex(index, s.Divisions())
		if !pos.Before(t.Length()) {
			reply = "Invalid note index"
			return nil
		}
		t.ToggleNote(pos)
		reply = fmt.Sprintf("Toggled note %d (beat %s) in track %d", index, pos, slot)
		return nil
	})
	if err != nil {
		return replyErr(err)
	}
	return reply
}

func (in *Interpreter) length(arg string) string {
	if arg == "" {
		return "Please provide the desired length of the track in beats"
	}
	beats, err := strconv.Atoi(arg)
	if err != nil {
		beats = 0
	}

	var reply string
	err = in.mixer.Edit(func(s *sequencer.State) error {
		slot, ok := s.Selected()
		if !ok {
			return errNoSelection
		}
		if beats < 1 {
			reply = "Invalid number of beats"
			return nil
		}
		s.Track(slot).SetLength(beats)
		reply = fmt.Sprintf("Set the length of track %d to %d beats", slot, beats)
		return nil
	})
	if err != nil {
		return replyErr(err)
	}
	return reply
}

func (in *Interpreter) divisions(arg string) string {
	if arg == "" {
		return "Please provide the number of divisions to make per beat"
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return "Invalid number of divisions"
	}
	in.mixer.Edit(func(s *sequencer.State) error {
		s.SetDivisions(n)
		return nil
	})
	return fmt.Sprintf("Set the number of divisions per beat to %d", n)
}

func (in *Interpreter) bpm(arg string) string {
	if arg == "" {
		return "Please provide the tempo in beats per minute"
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "Invalid tempo"
	}
	n = max(sequencer.MinTempo, min(sequencer.MaxTempo, n))
	in.mixer.Edit(func(s *sequencer.State) error {
		s.SetBPM(n)
		return nil
	})
	return fmt.Sprintf("Set the tempo to %d BPM", n)
}

func (in *Interpreter) volume(arg string) string {
	if in.out == nil {
		return "No volume control on this backend"
	}
	if arg == "" {
		return "Please provide the volume, 0 is full and -1 is half"
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v > 0 {
		return "Invalid volume"
	}
	in.out.SetVolume(v)
	return fmt.Sprintf("Set the volume to %g", v)
}

func (in *Interpreter) mute() string {
	if in.out == nil {
		return "No volume control on this backend"
	}
	in.muted = !in.muted
	in.out.SetMuted(in.muted)
	if in.muted {
		return "Muted"
	}
	return "Unmuted"
}

// Print lists every track as "* 0 [ 0 0.5 ] x.x.|.... kick.wav", with *
// marking the selection.
func Print(v sequencer.View) string {
	if len(v.Tracks) == 0 {
		return "No tracks"
	}
	var b strings.Builder
	for i, t := range v.Tracks {
		if i > 0 {
			b.WriteByte('\n')
		}
		mark := ' '
		if t.Selected {
			mark = '*'
		}
		fmt.Fprintf(&b, "%c %d %s %s %s", mark, t.Slot, t.Label(), t.Grid, t.Name)
		if t.Grid.Omitted > 0 {
			fmt.Fprintf(&b, " (%d off grid)", t.Grid.Omitted)
		}
	}
	return b.String()
}
