package sample

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"go-drumcli/midi"
)

type recordingSender struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSender) NoteOn(n midi.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "on:"+n.String())
	return nil
}

func (r *recordingSender) NoteOff(n midi.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "off:"+n.String())
	return nil
}

func (r *recordingSender) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestSilentBackendCountsPlays(t *testing.T) {
	b := NewSilentBackend()
	s, err := b.Load("kick.wav")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Play()
	s.Play()
	if got := b.Sample("kick.wav").Plays(); got != 2 {
		t.Errorf("Plays() = %d, want 2", got)
	}

	s.Close()
	s.Play()
	if got := b.Sample("kick.wav").Plays(); got != 2 {
		t.Errorf("closed sample should not count plays, got %d", got)
	}
}

func TestMIDIBackendGate(t *testing.T) {
	out := &recordingSender{}
	b := NewMIDIBackend(out, 10*time.Millisecond)

	s, err := b.Load("midi:36@10")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Play()
	if !s.IsPlaying() {
		t.Error("sample should be playing right after Play")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.IsPlaying() {
		t.Error("note should be released after the gate")
	}

	got := out.snapshot()
	want := []string{"on:midi:36@10", "off:midi:36@10"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestMIDIBackendRetriggerCutsNote(t *testing.T) {
	out := &recordingSender{}
	b := NewMIDIBackend(out, time.Hour)

	s, _ := b.Load("midi:38")
	s.Play()
	s.Play()
	s.Close()

	got := out.snapshot()
	want := []string{"on:midi:38@10", "off:midi:38@10", "on:midi:38@10", "off:midi:38@10"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMIDIBackendRejectsBadPath(t *testing.T) {
	b := NewMIDIBackend(&recordingSender{}, time.Millisecond)
	if _, err := b.Load("midi:300"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
	if _, err := NewMIDIBackend(nil, time.Millisecond).Load("midi:36"); !errors.Is(err, ErrNoMIDI) {
		t.Errorf("error = %v, want ErrNoMIDI", err)
	}
}

func TestRouter(t *testing.T) {
	audio := NewSilentBackend()
	r := &Router{Audio: audio}

	if _, err := r.Load("midi:36"); !errors.Is(err, ErrNoMIDI) {
		t.Errorf("midi path without MIDI backend: error = %v", err)
	}

	homedir.DisableCache = true
	t.Setenv("HOME", "/home/drummer")
	s, err := r.Load("~/samples/kick.wav")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name() != "/home/drummer/samples/kick.wav" {
		t.Errorf("Name() = %q, want expanded path", s.Name())
	}

	r.MIDI = NewMIDIBackend(&recordingSender{}, time.Millisecond)
	if _, err := r.Load("midi:36"); err != nil {
		t.Errorf("midi path: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMIDIBackendKit(t *testing.T) {
	out := &recordingSender{}
	b := NewMIDIBackend(out, time.Hour)
	b.SetKit("rd8")

	s, err := b.Load("midi:snare")
	if err != nil {
		t.Fatal(err)
	}
	s.Play()
	s.Close()
	if got := out.snapshot(); len(got) == 0 || got[0] != "on:midi:40@10" {
		t.Errorf("events = %v, want the RD-8 snare", got)
	}
}
