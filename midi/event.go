package midi

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme prefixes sample paths that trigger a MIDI note instead of audio.
const Scheme = "midi:"

// DefaultChannel is the GM percussion channel (10, zero-based 9).
const DefaultChannel uint8 = 9

// Note describes one MIDI trigger: midi:<note>[@<channel>] with channel 1-16.
// The note may be a number or a voice name from the kit, e.g. midi:snare.
type Note struct {
	Channel  uint8 // zero-based
	Key      uint8
	Velocity uint8
}

// ParseNote parses a midi: sample path, naming voices from the GM kit.
func ParseNote(path string) (Note, error) {
	return ParseNoteKit(path, GetKit(DefaultKit))
}

// ParseNoteKit parses a midi: sample path, naming voices from kit.
func ParseNoteKit(path string, kit DrumKit) (Note, error) {
	rest, ok := strings.CutPrefix(path, Scheme)
	if !ok {
		return Note{}, fmt.Errorf("not a midi path: %q", path)
	}
	n := Note{Channel: DefaultChannel, Velocity: 100}

	keyPart, chanPart, hasChan := strings.Cut(rest, "@")
	if key, ok := kit.Voice(keyPart); ok {
		n.Key = key
	} else {
		key, err := strconv.Atoi(keyPart)
		if err != nil || key < 0 || key > 127 {
			return Note{}, fmt.Errorf("invalid midi note %q", keyPart)
		}
		n.Key = uint8(key)
	}

	if hasChan {
		ch, err := strconv.Atoi(chanPart)
		if err != nil || ch < 1 || ch > 16 {
			return Note{}, fmt.Errorf("invalid midi channel %q", chanPart)
		}
		n.Channel = uint8(ch - 1)
	}
	return n, nil
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d@%d", Scheme, n.Key, n.Channel+1)
}
