package sample

import (
	"errors"
	"strings"
)

// Router sends midi: paths to one backend and everything else to another.
// Either may be nil.
type Router struct {
	Audio Backend
	MIDI  Backend
}

// Load expands the path and hands it to the matching backend.
func (r *Router) Load(path string) (Sample, error) {
	if strings.HasPrefix(path, MIDIScheme) {
		if r.MIDI == nil {
			return nil, ErrNoMIDI
		}
		return r.MIDI.Load(path)
	}
	if r.Audio == nil {
		return nil, ErrUnsupportedFormat
	}
	p, err := Expand(path)
	if err != nil {
		return nil, err
	}
	return r.Audio.Load(p)
}

// Close closes both backends.
func (r *Router) Close() error {
	var errs []error
	if r.Audio != nil {
		errs = append(errs, r.Audio.Close())
	}
	if r.MIDI != nil {
		errs = append(errs, r.MIDI.Close())
	}
	return errors.Join(errs...)
}
