package sequencer

import (
	"math"
	"strings"

	"go-drumcli/beat"
	"go-drumcli/debug"
	"go-drumcli/notelist"
	"go-drumcli/sample"
)

// Note is a trigger point within a track's loop.
type Note struct {
	Pos beat.Pos
}

// Track plays one sample on the notes of a looping timeline.
//
// next is the note due to fire. Nil means every note of the current loop
// has fired and the track is waiting for the phase to wrap. When non-nil it
// always addresses a live note of this track's own list.
type Track struct {
	sample    sample.Sample
	notes     *notelist.List[Note]
	next      notelist.Handle
	lastPhase float64
	beatcount int
}

// NewTrack binds s to an empty loop of beatcount beats (>= 1).
func NewTrack(s sample.Sample, beatcount int) *Track {
	return &Track{
		sample:    s,
		notes:     notelist.New[Note](),
		lastPhase: -1, // nothing observed yet
		beatcount: beatcount,
	}
}

// Sample returns the bound sample.
func (t *Track) Sample() sample.Sample { return t.sample }

// Length returns the loop length in beats.
func (t *Track) Length() int { return t.beatcount }

// Len returns the number of notes.
func (t *Track) Len() int { return t.notes.Len() }

// Notes returns note positions in ascending order.
func (t *Track) Notes() []beat.Pos {
	out := make([]beat.Pos, 0, t.notes.Len())
	for _, n := range t.notes.All() {
		out = append(out, n.Pos)
	}
	return out
}

// Armed returns the position of the note due to fire next.
func (t *Track) Armed() (beat.Pos, bool) {
	n, ok := t.notes.Get(t.next)
	return n.Pos, ok
}

// find returns the note at exactly pos, or the first note after it.
func (t *Track) find(pos beat.Pos) (at, after notelist.Handle) {
	for h, n := range t.notes.All() {
		switch n.Pos.Cmp(pos) {
		case 0:
			return h, notelist.Nil
		case 1:
			return notelist.Nil, h
		}
	}
	return notelist.Nil, notelist.Nil
}

// HasNote reports whether a note sits exactly at pos.
func (t *Track) HasNote(pos beat.Pos) bool {
	at, _ := t.find(pos)
	return !at.IsNil()
}

// AddNote inserts a note at pos keeping the list ascending. It returns
// false if a note is already there.
func (t *Track) AddNote(pos beat.Pos) bool {
	at, after := t.find(pos)
	if !at.IsNil() {
		return false
	}
	wasEmpty := t.notes.Len() == 0

	// after == Nil appends at the tail
	h := t.notes.InsertBefore(Note{Pos: pos}, after)
	if h.IsNil() {
		return false
	}

	switch {
	case wasEmpty:
		if t.next.IsNil() {
			t.next = h
		}
	case pos.Float() > t.lastPhase:
		// not yet reached in this loop: make sure it fires this time round
		armed, ok := t.notes.Get(t.next)
		if !ok || pos.Less(armed.Pos) {
			t.next = h
		}
	}
	return true
}

// RemoveNote deletes the note at exactly pos. If it was due next, the
// cursor moves on to its successor first.
func (t *Track) RemoveNote(pos beat.Pos) bool {
	at, _ := t.find(pos)
	if at.IsNil() {
		return false
	}
	t.notes.Remove(at, &t.next)
	return true
}

// ToggleNote removes the note at pos if there is one, else adds it. It
// reports whether a note is now present.
func (t *Track) ToggleNote(pos beat.Pos) bool {
	if t.RemoveNote(pos) {
		return false
	}
	return t.AddNote(pos)
}

// SetLength changes the loop length and drops notes that no longer fit.
func (t *Track) SetLength(beats int) {
	t.beatcount = beats
	for h := t.notes.Tail(); !h.IsNil(); {
		n, _ := t.notes.Get(h)
		if n.Pos.Before(beats) {
			break
		}
		prev := t.notes.Prev(h)
		t.notes.Remove(h, &t.next)
		h = prev
	}
}

// phase maps an absolute beat into [0, beatcount).
func (t *Track) phase(currentBeat float64) float64 {
	p := math.Mod(currentBeat, float64(t.beatcount))
	if p < 0 {
		p += float64(t.beatcount)
	}
	if p >= float64(t.beatcount) {
		p = 0
	}
	return p
}

// ShouldPlay decides whether the armed note is due at currentBeat. It
// records the observed phase on every poll and re-arms the first note when
// the phase has wrapped, but never changes which notes exist.
func (t *Track) ShouldPlay(currentBeat float64) bool {
	if t.notes.Len() == 0 {
		return false
	}
	phase := t.phase(currentBeat)

	if t.next.IsNil() {
		// a track never polled has no loop in progress to wait out
		wrapped := t.lastPhase < 0 || phase < t.lastPhase
		t.lastPhase = phase
		if !wrapped {
			return false
		}
		t.next = t.notes.Head()
	}
	t.lastPhase = phase

	n, _ := t.notes.Get(t.next)
	return n.Pos.Reached(phase)
}

// Play triggers the sample and advances the cursor. After the last note the
// cursor is nil until the loop wraps.
func (t *Track) Play(currentBeat float64) {
	if t.sample != nil {
		t.sample.Play()
	}
	debug.Log("track", "fire %s beat=%.3f", t.sampleName(), currentBeat)
	t.next = t.notes.Next(t.next)
}

func (t *Track) sampleName() string {
	if t.sample == nil {
		return "-"
	}
	return t.sample.Name()
}

// Release frees the sample and every note.
func (t *Track) Release() error {
	t.notes.Clear()
	t.next = notelist.Nil
	if t.sample == nil {
		return nil
	}
	return t.sample.Close()
}

// String lists note positions in beats: [ 0 0.5 1 ]
func (t *Track) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, n := range t.notes.All() {
		b.WriteString(n.Pos.String())
		b.WriteByte(' ')
	}
	b.WriteString("]")
	return b.String()
}

// checkInvariants is used by tests and the stress test.
func (t *Track) checkInvariants() string {
	if !t.next.IsNil() && !t.notes.Valid(t.next) {
		return "cursor does not address a live note"
	}
	var prev *beat.Pos
	for _, n := range t.notes.All() {
		if prev != nil && !prev.Less(n.Pos) {
			return "notes out of order"
		}
		if !n.Pos.Before(t.beatcount) {
			return "note beyond loop length"
		}
		p := n.Pos
		prev = &p
	}
	return ""
}
