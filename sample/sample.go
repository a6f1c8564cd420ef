// Package sample loads and triggers the audio a track plays on every note.
//
// The sequencer only sees the Sample and Loader interfaces; concrete
// backends decode files through beep, send MIDI notes, or stay silent.
package sample

import (
	"errors"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Sample errors
var (
	// ErrNotFound is returned when the sample file does not exist.
	ErrNotFound = errors.New("sample not found")

	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrInvalidFormat is returned when a file cannot be decoded.
	ErrInvalidFormat = errors.New("invalid sample data")

	// ErrNoMIDI is returned when a midi: sample is loaded with no MIDI output.
	ErrNoMIDI = errors.New("no MIDI output configured")
)

// Sample is one playable sound. Play must not block on playback.
type Sample interface {
	// Name is the path the sample was loaded from.
	Name() string
	// Play restarts the sample from the beginning.
	Play()
	// IsPlaying reports whether the last Play is still sounding.
	IsPlaying() bool
	// Close releases the sample. It is not playable afterwards.
	Close() error
}

// Loader turns a path into a Sample.
type Loader interface {
	Load(path string) (Sample, error)
}

// Backend is a Loader that owns an output device.
type Backend interface {
	Loader
	Close() error
}

// Expand resolves ~ and $VARS in user-supplied paths.
func Expand(path string) (string, error) {
	if strings.HasPrefix(path, MIDIScheme) {
		return path, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return p, nil
}
