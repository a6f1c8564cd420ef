package sequencer

import (
	"errors"
	"fmt"
	"time"

	"go-drumcli/debug"
	"go-drumcli/sample"
)

// NumTracks is the number of track slots.
const NumTracks = 16

// Tempo and grid defaults
const (
	MinTempo         = 20
	MaxTempo         = 300
	DefaultTempo     = 120
	DefaultDivisions = 2
	DefaultBeats     = 4
)

// ErrRegistryFull is returned when every track slot is taken.
var ErrRegistryFull = errors.New("maximum number of tracks reached")

// State is everything the scheduler and the command side share. It is only
// touched through a Mixer, which serializes access.
//
// Callers validate indexes and sizes; State does not re-check them.
type State struct {
	tracks    [NumTracks]*Track
	selected  int // -1 = none
	bpm       int
	divisions int

	// the beat count is rebased on every tempo change so the playhead
	// never jumps
	clock      Clock
	originBeat float64
	originAt   time.Duration
}

// NewState returns an empty registry at the given tempo and divisions.
func NewState(clock Clock, bpm, divisions int) *State {
	return &State{
		selected:  -1,
		bpm:       bpm,
		divisions: divisions,
		clock:     clock,
		originAt:  clock.Now(),
	}
}

// AddTrack puts a new track in the first free slot.
func (s *State) AddTrack(smp sample.Sample, beats int) (int, error) {
	for i, t := range s.tracks {
		if t == nil {
			s.tracks[i] = NewTrack(smp, beats)
			debug.Log("registry", "add track=%d sample=%s beats=%d", i, smp.Name(), beats)
			return i, nil
		}
	}
	return -1, ErrRegistryFull
}

// RemoveTrack releases the track in slot i and clears the selection if it
// pointed there.
func (s *State) RemoveTrack(i int) error {
	t := s.tracks[i]
	if t == nil {
		return nil
	}
	s.tracks[i] = nil
	if s.selected == i {
		s.selected = -1
	}
	debug.Log("registry", "remove track=%d", i)
	if err := t.Release(); err != nil {
		return fmt.Errorf("release track %d: %w", i, err)
	}
	return nil
}

// Track returns the track in slot i, or nil.
func (s *State) Track(i int) *Track {
	if i < 0 || i >= NumTracks {
		return nil
	}
	return s.tracks[i]
}

// Select makes slot i the target of note and length edits. -1 clears.
func (s *State) Select(i int) {
	s.selected = i
}

// Selected returns the selected slot.
func (s *State) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// SelectedTrack returns the selected track, or nil.
func (s *State) SelectedTrack() *Track {
	return s.Track(s.selected)
}

// BPM returns the tempo.
func (s *State) BPM() int { return s.bpm }

// SetBPM changes tempo without moving the playhead.
func (s *State) SetBPM(bpm int) {
	now := s.clock.Now()
	s.originBeat = s.beatAt(now)
	s.originAt = now
	s.bpm = bpm
}

// Divisions returns the number of grid steps per beat.
func (s *State) Divisions() int { return s.divisions }

// SetDivisions changes the grid. Existing notes keep their positions.
func (s *State) SetDivisions(n int) { s.divisions = n }

// Beat returns the current fractional beat.
func (s *State) Beat() float64 {
	return s.beatAt(s.clock.Now())
}

func (s *State) beatAt(now time.Duration) float64 {
	msPerBeat := 60000.0 / float64(s.bpm)
	elapsed := float64(now-s.originAt) / float64(time.Millisecond)
	return s.originBeat + elapsed/msPerBeat
}

// Tick fires every track whose next note is due and returns how many fired.
func (s *State) Tick() int {
	current := s.Beat()
	fired := 0
	for _, t := range s.tracks {
		if t == nil {
			continue
		}
		if t.ShouldPlay(current) {
			t.Play(current)
			fired++
		}
	}
	return fired
}

// Close releases every track.
func (s *State) Close() error {
	var errs []error
	for i := range s.tracks {
		if err := s.RemoveTrack(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
