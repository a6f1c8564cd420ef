package sample

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go-drumcli/debug"
	"go-drumcli/midi"
)

// MIDIScheme marks paths handled by MIDIBackend.
const MIDIScheme = midi.Scheme

// NoteSender is the part of an output port MIDIBackend needs.
type NoteSender interface {
	NoteOn(n midi.Note) error
	NoteOff(n midi.Note) error
}

// MIDIBackend "plays" a sample by sending a note to an external synth or
// drum machine. Paths look like midi:36, midi:38@10 or midi:snare.
type MIDIBackend struct {
	out  NoteSender
	gate time.Duration
	kit  midi.DrumKit
	wg   sync.WaitGroup
}

// NewMIDIBackend sends to out and releases every note after gate. Voice
// names resolve through the GM kit until SetKit is called.
func NewMIDIBackend(out NoteSender, gate time.Duration) *MIDIBackend {
	return &MIDIBackend{out: out, gate: gate, kit: midi.GetKit(midi.DefaultKit)}
}

// SetKit picks the kit used for voice names in paths loaded afterwards.
func (b *MIDIBackend) SetKit(name string) {
	b.kit = midi.GetKit(name)
}

// Load parses a midi: path.
func (b *MIDIBackend) Load(path string) (Sample, error) {
	if b.out == nil {
		return nil, ErrNoMIDI
	}
	n, err := midi.ParseNoteKit(path, b.kit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &midiSample{name: path, note: n, backend: b}, nil
}

// Close waits for pending note-offs.
func (b *MIDIBackend) Close() error {
	b.wg.Wait()
	if c, ok := b.out.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type midiSample struct {
	name    string
	note    midi.Note
	backend *MIDIBackend

	gen     atomic.Uint64
	playing atomic.Bool
	closed  atomic.Bool
}

func (s *midiSample) Name() string { return s.name }

func (s *midiSample) Play() {
	if s.closed.Load() {
		return
	}
	b := s.backend
	if s.playing.Load() {
		// one voice per track: cut the ringing note first
		b.out.NoteOff(s.note)
	}
	if err := b.out.NoteOn(s.note); err != nil {
		debug.Log("midi", "note on %s: %v", s.note, err)
		return
	}
	gen := s.gen.Add(1)
	s.playing.Store(true)

	b.wg.Add(1)
	time.AfterFunc(b.gate, func() {
		defer b.wg.Done()
		if s.gen.Load() != gen {
			return
		}
		b.out.NoteOff(s.note)
		s.playing.Store(false)
	})
}

func (s *midiSample) IsPlaying() bool { return s.playing.Load() }

func (s *midiSample) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.playing.Swap(false) {
		s.gen.Add(1)
		return s.backend.out.NoteOff(s.note)
	}
	return nil
}
