package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-drumcli/command"
	"go-drumcli/config"
	"go-drumcli/debug"
	"go-drumcli/midi"
	"go-drumcli/sample"
	"go-drumcli/sequencer"
	"go-drumcli/theme"
	"go-drumcli/tui"
)

var flags struct {
	config    string
	bpm       int
	divisions int
	backend   string
	midiPort  string
	midiKit   string
	plain     bool
	debug     bool
	tick      time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "drumcli [sample...]",
	Short: "Make drum beats at the command line",
	Long: `drumcli is a step sequencer for the terminal. Each track loops one
sample over a number of beats; toggle notes on its grid and they play on
every pass.

Samples are .wav, .flac or .mp3 files, or midi:<note>[@<channel>] to
trigger an external instrument. Samples given as arguments are added as
tracks at startup.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "",
		"Config file (.json, .yaml); defaults to ~/.config/go-drumcli/config.json")
	f.IntVarP(&flags.bpm, "bpm", "b", sequencer.DefaultTempo,
		"Tempo in beats per minute (20-300)")
	f.IntVarP(&flags.divisions, "divisions", "d", sequencer.DefaultDivisions,
		"Grid steps per beat")
	f.StringVar(&flags.backend, "backend", config.BackendBeep,
		"Sample backend: beep, midi or silent")
	f.StringVar(&flags.midiPort, "midi-port", "",
		"MIDI output port (substring match) for midi: samples")
	f.StringVar(&flags.midiKit, "midi-kit", "",
		"Drum kit for midi:<voice> samples: gm, rd8, tr8s or er1")
	f.BoolVar(&flags.plain, "plain", false,
		"Line-based prompt instead of the full-screen UI")
	f.BoolVar(&flags.debug, "debug", false,
		"Write debug logs to ~/.config/go-drumcli/debug.log")
	f.DurationVar(&flags.tick, "tick", sequencer.DefaultTickInterval,
		"Scheduler poll interval")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// flags given explicitly win over the file
	f := cmd.Flags()
	if f.Changed("bpm") {
		cfg.Sequencer.BPM = flags.bpm
	}
	if f.Changed("divisions") {
		cfg.Sequencer.Divisions = flags.divisions
	}
	if f.Changed("backend") {
		cfg.Audio.Backend = flags.backend
	}
	if f.Changed("midi-port") {
		cfg.Audio.MIDIPort = flags.midiPort
	}
	if f.Changed("midi-kit") {
		cfg.Audio.MIDIKit = flags.midiKit
	}
	if f.Changed("plain") {
		cfg.UI.Plain = flags.plain
	}
	if f.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if f.Changed("tick") {
		cfg.Sequencer.TickMicros = int(flags.tick / time.Microsecond)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func startDebug(cfg *config.Config) error {
	if !cfg.Debug {
		return nil
	}
	path, err := cfg.DebugLogPath()
	if err != nil {
		return err
	}
	if path == "" {
		path = debug.DefaultPath()
	}
	return debug.Enable(path)
}

// openBackend builds the loader for cfg. midi: samples always go to the
// MIDI port when one is configured.
func openBackend(cfg *config.Config) (*sample.Router, error) {
	r := &sample.Router{}

	if cfg.Audio.Backend == config.BackendSilent {
		silent := sample.NewSilentBackend()
		r.Audio, r.MIDI = silent, silent
		return r, nil
	}

	if cfg.Audio.MIDIPort != "" {
		out, err := midi.OpenOut(cfg.Audio.MIDIPort)
		if err != nil {
			return nil, err
		}
		debug.Log("main", "MIDI out %s", out.Name())
		mb := sample.NewMIDIBackend(out, cfg.MIDIGate())
		if cfg.Audio.MIDIKit != "" {
			mb.SetKit(cfg.Audio.MIDIKit)
		}
		r.MIDI = mb
	}

	if cfg.Audio.Backend == config.BackendBeep {
		audio, err := sample.NewBeepBackend(cfg.Audio.SampleRate, cfg.AudioBuffer())
		if err != nil {
			r.Close()
			return nil, err
		}
		r.Audio = audio
	}
	return r, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := startDebug(cfg); err != nil {
		return fmt.Errorf("debug log: %w", err)
	}
	defer debug.Disable()

	backend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Audio.Backend, err)
	}
	defer midi.CloseDriver()
	defer backend.Close()

	state := sequencer.NewState(sequencer.NewSystemClock(), cfg.Sequencer.BPM, cfg.Sequencer.Divisions)
	mixer := sequencer.NewMixer(state)
	defer mixer.Close()

	interp := command.New(mixer, backend, cfg.Sequencer.DefaultBeats)
	if out, ok := backend.Audio.(command.Output); ok {
		interp.SetOutput(out)
	}

	sched := sequencer.NewScheduler(mixer, cfg.TickInterval())
	sched.Start()
	defer sched.Stop()

	var startup []string
	for _, path := range append(cfg.Samples, args...) {
		startup = append(startup, interp.Add(path))
	}

	if cfg.UI.Plain {
		for _, line := range startup {
			fmt.Println(line)
		}
		return command.Repl(interp, os.Stdin, os.Stdout)
	}

	var palette *theme.Palette
	if cfg.UI.Palette != "" {
		palette, err = theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			return err
		}
	}
	m := tui.NewModel(mixer, interp, theme.New(palette)).WithReplies(startup)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
