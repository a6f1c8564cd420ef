package sample

import (
	"sync"
	"sync/atomic"
)

// SilentBackend accepts any path and makes no sound. It counts plays, which
// makes it the backend for headless runs and tests.
type SilentBackend struct {
	mu      sync.Mutex
	samples map[string]*SilentSample
}

// NewSilentBackend returns an empty backend.
func NewSilentBackend() *SilentBackend {
	return &SilentBackend{samples: make(map[string]*SilentSample)}
}

// Load never fails.
func (b *SilentBackend) Load(path string) (Sample, error) {
	s := &SilentSample{name: path}
	b.mu.Lock()
	b.samples[path] = s
	b.mu.Unlock()
	return s, nil
}

// Sample returns the most recent sample loaded from path.
func (b *SilentBackend) Sample(path string) *SilentSample {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples[path]
}

func (b *SilentBackend) Close() error { return nil }

// SilentSample records how often it was played.
type SilentSample struct {
	name   string
	plays  atomic.Int64
	closed atomic.Bool
}

// NewSilentSample builds a standalone sample, for tests that need no backend.
func NewSilentSample(name string) *SilentSample {
	return &SilentSample{name: name}
}

func (s *SilentSample) Name() string { return s.name }

func (s *SilentSample) Play() {
	if !s.closed.Load() {
		s.plays.Add(1)
	}
}

func (s *SilentSample) IsPlaying() bool { return false }

func (s *SilentSample) Close() error {
	s.closed.Store(true)
	return nil
}

// Plays is the number of Play calls before Close.
func (s *SilentSample) Plays() int { return int(s.plays.Load()) }

// Closed reports whether Close was called.
func (s *SilentSample) Closed() bool { return s.closed.Load() }
