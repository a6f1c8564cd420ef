package sample

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"go-drumcli/debug"
)

// BeepBackend plays decoded samples through the speaker. Every sample is
// mixed into one beep.Mixer behind a master volume.
type BeepBackend struct {
	rate   beep.SampleRate
	mixer  *beep.Mixer
	volume *effects.Volume

	mu     sync.Mutex
	closed bool
}

// NewBeepBackend opens the speaker at sampleRate with a buffer of the given
// duration.
func NewBeepBackend(sampleRate int, buffer time.Duration) (*BeepBackend, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	vol := &effects.Volume{
		Streamer: mixer,
		Base:     2,
		Volume:   0,
		Silent:   false,
	}
	speaker.Play(vol)

	debug.Log("audio", "speaker open rate=%d buffer=%s", sampleRate, buffer)
	return &BeepBackend{rate: sr, mixer: mixer, volume: vol}, nil
}

// Load decodes path and resamples it to the output rate.
func (b *BeepBackend) Load(path string) (Sample, error) {
	buf, err := Decode(path)
	if err != nil {
		return nil, err
	}
	buf = Resampled(buf, b.rate)
	debug.Log("audio", "loaded %s frames=%d", path, buf.Len())
	return &beepSample{name: path, backend: b, buf: buf}, nil
}

// SetVolume sets the master volume in halvings (0 = unity, -1 = half).
func (b *BeepBackend) SetVolume(v float64) {
	speaker.Lock()
	b.volume.Volume = v
	speaker.Unlock()
}

// SetMuted silences all output without stopping voices.
func (b *BeepBackend) SetMuted(muted bool) {
	speaker.Lock()
	b.volume.Silent = muted
	speaker.Unlock()
}

// Close stops every voice and releases the speaker.
func (b *BeepBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	return nil
}

// beepSample owns at most one sounding voice.
type beepSample struct {
	name    string
	backend *BeepBackend
	buf     *beep.Buffer

	voice   *beep.Ctrl  // guarded by speaker.Lock
	gen     atomic.Uint64
	playing atomic.Bool
	closed  atomic.Bool
}

func (s *beepSample) Name() string { return s.name }

// Play cuts off the previous voice and starts a new one.
func (s *beepSample) Play() {
	if s.closed.Load() {
		return
	}
	gen := s.gen.Add(1)
	voice := &beep.Ctrl{Streamer: s.buf.Streamer(0, s.buf.Len())}
	done := beep.Callback(func() {
		// a newer Play owns the flag now
		if s.gen.Load() == gen {
			s.playing.Store(false)
		}
	})

	speaker.Lock()
	if s.voice != nil {
		s.voice.Streamer = nil
	}
	s.voice = voice
	s.playing.Store(true)
	s.backend.mixer.Add(beep.Seq(voice, done))
	speaker.Unlock()
}

func (s *beepSample) IsPlaying() bool { return s.playing.Load() }

func (s *beepSample) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	speaker.Lock()
	if s.voice != nil {
		s.voice.Streamer = nil
		s.voice = nil
	}
	speaker.Unlock()
	s.playing.Store(false)
	debug.Log("audio", "released %s", s.name)
	return nil
}
