package sequencer

import (
	"sync"
	"sync/atomic"
	"time"

	"go-drumcli/debug"
)

// DefaultTickInterval is how long the scheduler sleeps between polls.
const DefaultTickInterval = time.Millisecond

// Scheduler polls the mixer on its own goroutine until stopped.
type Scheduler struct {
	mixer    *Mixer
	interval time.Duration

	exit    atomic.Bool
	running bool
	doneCh  chan struct{}
	mu      sync.Mutex
}

// NewScheduler polls m every interval. A non-positive interval uses
// DefaultTickInterval.
func NewScheduler(m *Mixer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{mixer: m, interval: interval}
}

// Start launches the timing goroutine. It does nothing if already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.exit.Store(false)
	s.doneCh = make(chan struct{})
	debug.Log("sched", "start interval=%s", s.interval)
	go s.run(s.doneCh)
}

func (s *Scheduler) run(done chan struct{}) {
	defer close(done)
	for !s.exit.Load() {
		if _, ok := s.mixer.TryTick(); !ok {
			debug.LogEvery(1000, "sched", "tick dropped on contention, total=%d", s.mixer.Dropped())
		}
		time.Sleep(s.interval)
	}
}

// Stop asks the goroutine to exit and waits for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.exit.Store(true)
	done := s.doneCh
	s.mu.Unlock()

	<-done
	debug.Log("sched", "stopped dropped=%d fired=%d", s.mixer.Dropped(), s.mixer.Fired())
}

// IsRunning reports whether the goroutine has been started and not stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Interval returns the poll interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }
