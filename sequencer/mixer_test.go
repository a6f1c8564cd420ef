package sequencer

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"go-drumcli/beat"
	"go-drumcli/sample"
)

func newTestMixer(bpm int) (*Mixer, *ManualClock) {
	clock := &ManualClock{}
	return NewMixer(NewState(clock, bpm, DefaultDivisions)), clock
}

func addTrack(t *testing.T, m *Mixer, name string, notes ...beat.Pos) *sample.SilentSample {
	t.Helper()
	s := sample.NewSilentSample(name)
	err := m.Edit(func(st *State) error {
		i, err := st.AddTrack(s, DefaultBeats)
		if err != nil {
			return err
		}
		for _, p := range notes {
			st.Track(i).AddNote(p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRegistryFull(t *testing.T) {
	m, _ := newTestMixer(DefaultTempo)
	for i := 0; i < NumTracks; i++ {
		addTrack(t, m, "hat.wav")
	}
	err := m.Edit(func(st *State) error {
		_, err := st.AddTrack(sample.NewSilentSample("one-too-many.wav"), DefaultBeats)
		return err
	})
	if !errors.Is(err, ErrRegistryFull) {
		t.Errorf("err = %v, want ErrRegistryFull", err)
	}
}

func TestAddTrackFillsFirstFreeSlot(t *testing.T) {
	m, _ := newTestMixer(DefaultTempo)
	addTrack(t, m, "a.wav")
	b := addTrack(t, m, "b.wav")
	addTrack(t, m, "c.wav")

	m.Edit(func(st *State) error {
		st.Select(1)
		return st.RemoveTrack(1)
	})
	if !b.Closed() {
		t.Error("removed track should release its sample")
	}

	var slot int
	m.Edit(func(st *State) error {
		if _, ok := st.Selected(); ok {
			t.Error("selection should clear with its track")
		}
		var err error
		slot, err = st.AddTrack(sample.NewSilentSample("d.wav"), DefaultBeats)
		return err
	})
	if slot != 1 {
		t.Errorf("slot = %d, want 1", slot)
	}
}

func TestTryTickFiresOnSchedule(t *testing.T) {
	m, clock := newTestMixer(120) // 500ms per beat
	kick := addTrack(t, m, "kick.wav", beat.Beats(0), beat.Beats(2))
	hat := addTrack(t, m, "hat.wav", half(1), half(3))

	tests := []struct {
		at         time.Duration
		kick, hats int
	}{
		{0, 1, 0},
		{200 * time.Millisecond, 1, 0},
		{250 * time.Millisecond, 1, 1},
		{750 * time.Millisecond, 1, 2},
		{time.Second, 2, 2},
		{2 * time.Second, 3, 2}, // beat 4 wraps the 4-beat loop
	}
	for _, tt := range tests {
		clock.Set(tt.at)
		if _, ok := m.TryTick(); !ok {
			t.Fatalf("%v: tick dropped with no contention", tt.at)
		}
		if kick.Plays() != tt.kick || hat.Plays() != tt.hats {
			t.Errorf("%v: kick=%d hat=%d, want %d %d", tt.at, kick.Plays(), hat.Plays(), tt.kick, tt.hats)
		}
	}
	if m.Fired() != 5 {
		t.Errorf("Fired() = %d, want 5", m.Fired())
	}
}

func TestTryTickNotifies(t *testing.T) {
	m, _ := newTestMixer(DefaultTempo)
	addTrack(t, m, "kick.wav", beat.Beats(0))
	m.TryTick()
	select {
	case <-m.UpdateChan:
	default:
		t.Error("firing should post an update")
	}
	m.TryTick()
	select {
	case <-m.UpdateChan:
		t.Error("no note fired, no update expected")
	default:
	}
}

func TestTryTickDropsWhileEditing(t *testing.T) {
	m, _ := newTestMixer(DefaultTempo)
	kick := addTrack(t, m, "kick.wav", beat.Beats(0))

	m.Edit(func(*State) error {
		if _, ok := m.TryTick(); ok {
			t.Error("tick should not run while an edit holds the state")
		}
		return nil
	})
	if m.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", m.Dropped())
	}
	if kick.Plays() != 0 {
		t.Error("dropped tick must not fire")
	}
	if _, ok := m.TryTick(); !ok || kick.Plays() != 1 {
		t.Error("next tick should fire the note that was due")
	}
}

func TestSetBPMKeepsPlayhead(t *testing.T) {
	m, clock := newTestMixer(60)
	clock.Set(1500 * time.Millisecond)

	var before, after float64
	m.Edit(func(st *State) error {
		before = st.Beat()
		st.SetBPM(120)
		after = st.Beat()
		return nil
	})
	if math.Abs(before-1.5) > 1e-9 || math.Abs(after-before) > 1e-9 {
		t.Fatalf("beat before=%v after=%v, want 1.5 both", before, after)
	}

	clock.Advance(500 * time.Millisecond)
	if got := m.Snapshot().Beat; math.Abs(got-2.5) > 1e-9 {
		t.Errorf("beat after 500ms at 120bpm = %v, want 2.5", got)
	}
}

func TestSnapshot(t *testing.T) {
	m, clock := newTestMixer(120)
	addTrack(t, m, "kick.wav", beat.Beats(0), half(1))
	addTrack(t, m, "snare.wav", beat.Beats(1))
	m.Edit(func(st *State) error {
		st.Select(1)
		return nil
	})
	clock.Set(750 * time.Millisecond)

	v := m.Snapshot()
	if v.BPM != 120 || v.Divisions != DefaultDivisions || v.Selected != 1 {
		t.Errorf("header = %+v", v)
	}
	if len(v.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", len(v.Tracks))
	}
	kick := v.Tracks[0]
	if kick.Name != "kick.wav" || kick.Label() != "[ 0 0.5 ]" || kick.Selected {
		t.Errorf("kick = %+v", kick)
	}
	if got := kick.Grid.String(); got != "xx|..|..|.." {
		t.Errorf("kick grid = %q", got)
	}
	if !v.Tracks[1].Selected {
		t.Error("snare should be selected")
	}
	if math.Abs(kick.Phase-1.5) > 1e-9 {
		t.Errorf("phase = %v, want 1.5", kick.Phase)
	}
}

func TestMixerCloseReleasesSamples(t *testing.T) {
	m, _ := newTestMixer(DefaultTempo)
	a := addTrack(t, m, "a.wav")
	b := addTrack(t, m, "b.wav")
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.Closed() || !b.Closed() {
		t.Error("Close should release every sample")
	}
	if len(m.Snapshot().Tracks) != 0 {
		t.Error("registry should be empty after Close")
	}
}

// Edits race a running scheduler; every edit checks the invariants of
// every track while it holds the state.
func TestConcurrentEditsAndTicks(t *testing.T) {
	m := NewMixer(NewState(NewSystemClock(), MaxTempo, 4))
	for i := 0; i < 4; i++ {
		addTrack(t, m, "perc.wav")
	}
	sched := NewScheduler(m, 50*time.Microsecond)
	sched.Start()
	defer sched.Stop()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, 1))
			for i := 0; i < 500; i++ {
				err := m.Edit(func(st *State) error {
					tr := st.Track(rng.IntN(4))
					switch rng.IntN(10) {
					case 0:
						tr.SetLength(1 + rng.IntN(4))
					case 1:
						st.SetDivisions(1 + rng.IntN(4))
					case 2:
						st.SetBPM(MinTempo + rng.IntN(MaxTempo-MinTempo))
					default:
						p := beat.FromIndex(rng.IntN(16), st.Divisions())
						if p.Before(tr.Length()) {
							tr.ToggleNote(p)
						}
					}
					for i := 0; i < 4; i++ {
						if msg := st.Track(i).checkInvariants(); msg != "" {
							return errors.New(msg)
						}
					}
					return nil
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(uint64(w))
	}
	wg.Wait()
}
