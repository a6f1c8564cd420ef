package sequencer

import (
	"sync"
	"sync/atomic"
)

// Mixer guards the shared State. Commands wait for the lock; the scheduler
// only ever tries it and skips the tick when it is busy, so a slow edit can
// delay a note but never stall the timing loop.
type Mixer struct {
	mu    sync.Mutex
	state *State

	dropped atomic.Uint64
	fired   atomic.Uint64

	// UpdateChan receives a value whenever a note fires. Sends never block;
	// a pending value absorbs the rest.
	UpdateChan chan struct{}
}

// NewMixer takes ownership of s.
func NewMixer(s *State) *Mixer {
	return &Mixer{
		state:      s,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Edit runs fn with exclusive access to the state.
func (m *Mixer) Edit(fn func(s *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.state)
}

// TryTick fires due notes if the state is free. ok is false when the tick
// was dropped because an edit held the lock.
func (m *Mixer) TryTick() (fired int, ok bool) {
	if !m.mu.TryLock() {
		m.dropped.Add(1)
		return 0, false
	}
	fired = m.state.Tick()
	m.mu.Unlock()

	if fired > 0 {
		m.fired.Add(uint64(fired))
		m.notify()
	}
	return fired, true
}

func (m *Mixer) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// Dropped returns how many ticks were skipped on contention.
func (m *Mixer) Dropped() uint64 { return m.dropped.Load() }

// Fired returns how many notes have fired in total.
func (m *Mixer) Fired() uint64 { return m.fired.Load() }

// Snapshot copies everything a view needs under the lock.
func (m *Mixer) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := snapshot(m.state)
	v.Dropped = m.dropped.Load()
	return v
}

// Close releases every track. Stop the scheduler first.
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Close()
}
