// Package config loads and saves drumcli settings.
//
// Settings live in ~/.config/go-drumcli/config.json. Files given on the
// command line may also be YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"go-drumcli/midi"
)

// Backend names for Audio.Backend
const (
	BackendBeep   = "beep"
	BackendMIDI   = "midi"
	BackendSilent = "silent"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// SequencerConfig holds timing defaults
type SequencerConfig struct {
	BPM          int `json:"bpm" yaml:"bpm"`
	Divisions    int `json:"divisions" yaml:"divisions"`
	DefaultBeats int `json:"defaultBeats" yaml:"defaultBeats"`
	TickMicros   int `json:"tickMicros,omitempty" yaml:"tickMicros,omitempty"`
}

// AudioConfig picks and tunes the sample backend
type AudioConfig struct {
	Backend      string `json:"backend" yaml:"backend"`
	SampleRate   int    `json:"sampleRate" yaml:"sampleRate"`
	BufferMillis int    `json:"bufferMillis" yaml:"bufferMillis"`
	MIDIPort     string `json:"midiPort,omitempty" yaml:"midiPort,omitempty"`
	MIDIGateMs   int    `json:"midiGateMillis,omitempty" yaml:"midiGateMillis,omitempty"`
	MIDIKit      string `json:"midiKit,omitempty" yaml:"midiKit,omitempty"` // gm, rd8, tr8s, er1
}

// UIConfig stores UI preferences
type UIConfig struct {
	Plain   bool   `json:"plain,omitempty" yaml:"plain,omitempty"`
	Palette string `json:"palette,omitempty" yaml:"palette,omitempty"` // GIMP .gpl file
}

// Config is the main configuration structure
type Config struct {
	Sequencer SequencerConfig `json:"sequencer" yaml:"sequencer"`
	Audio     AudioConfig     `json:"audio" yaml:"audio"`
	UI        UIConfig        `json:"ui,omitempty" yaml:"ui,omitempty"`
	Debug     bool            `json:"debug,omitempty" yaml:"debug,omitempty"`
	DebugLog  string          `json:"debugLog,omitempty" yaml:"debugLog,omitempty"`
	Samples   []string        `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sequencer: SequencerConfig{
			BPM:          120,
			Divisions:    2,
			DefaultBeats: 4,
			TickMicros:   1000,
		},
		Audio: AudioConfig{
			Backend:      BackendBeep,
			SampleRate:   48000,
			BufferMillis: 10,
			MIDIGateMs:   50,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drumcli"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a .json, .yaml or .yml file over the defaults, so missing
// keys keep their default values.
func LoadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges. Tempo outside 20-300 is clamped rather than
// rejected.
func (c *Config) Validate() error {
	c.Sequencer.BPM = max(20, min(300, c.Sequencer.BPM))
	if c.Sequencer.Divisions < 1 {
		return fmt.Errorf("%w: divisions must be at least 1, got %d", ErrInvalid, c.Sequencer.Divisions)
	}
	if c.Sequencer.DefaultBeats < 1 {
		return fmt.Errorf("%w: defaultBeats must be at least 1, got %d", ErrInvalid, c.Sequencer.DefaultBeats)
	}
	if c.Sequencer.TickMicros < 0 {
		return fmt.Errorf("%w: tickMicros must not be negative", ErrInvalid)
	}
	switch c.Audio.Backend {
	case BackendBeep, BackendMIDI, BackendSilent:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Audio.Backend)
	}
	if c.Audio.Backend == BackendBeep && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sampleRate must be positive", ErrInvalid)
	}
	if c.Audio.MIDIKit != "" {
		if _, ok := midi.Kits[c.Audio.MIDIKit]; !ok {
			return fmt.Errorf("%w: unknown MIDI kit %q", ErrInvalid, c.Audio.MIDIKit)
		}
	}
	if c.Audio.Backend == BackendMIDI && c.Audio.MIDIPort == "" {
		return fmt.Errorf("%w: midi backend needs midiPort", ErrInvalid)
	}
	return nil
}

// TickInterval is the scheduler poll interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Sequencer.TickMicros) * time.Microsecond
}

// AudioBuffer is the speaker buffer length.
func (c *Config) AudioBuffer() time.Duration {
	return time.Duration(c.Audio.BufferMillis) * time.Millisecond
}

// MIDIGate is how long a MIDI trigger holds its note.
func (c *Config) MIDIGate() time.Duration {
	return time.Duration(c.Audio.MIDIGateMs) * time.Millisecond
}

// DebugLogPath returns the configured debug log, or "" for the default.
func (c *Config) DebugLogPath() (string, error) {
	if c.DebugLog == "" {
		return "", nil
	}
	return homedir.Expand(c.DebugLog)
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as JSON, or YAML for .yaml/.yml paths.
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
