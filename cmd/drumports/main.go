package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-drumcli/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "note":
		if len(os.Args) < 4 {
			usage()
			return
		}
		err = sendNote(os.Args[2], os.Args[3])
	case "poll":
		err = pollPorts()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("drumports - check MIDI ports for drumcli")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List all MIDI ports")
	fmt.Println("  note <port> <sample>  - Send one trigger, e.g. note IAC midi:36@10")
	fmt.Println("  poll                  - Watch for ports coming and going")
}

func listPorts() error {
	fmt.Printf("(waiting up to %s...)\n", midi.ScanTimeout)
	p, err := midi.ListPorts(midi.ScanTimeout)
	if err != nil {
		fmt.Println("CoreMIDI may be hung. Fix: sudo killall coreaudiod midiserver")
		return err
	}
	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range p.In {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range p.Out {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func sendNote(port, path string) error {
	n, err := midi.ParseNote(path)
	if err != nil {
		return err
	}
	out, err := midi.OpenOut(port)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Sending %s to %s\n", n, out.Name())
	if err := out.NoteOn(n); err != nil {
		return err
	}
	time.Sleep(200 * time.Millisecond)
	return out.NoteOff(n)
}

func pollPorts() error {
	fmt.Println("Polling for port changes every 2 seconds. Ctrl+C to exit.")

	var last midi.Ports
	first := true
	for {
		p, err := midi.ListPorts(midi.ScanTimeout)
		if err != nil {
			return err
		}
		if first || !slices.Equal(p.In, last.In) || !slices.Equal(p.Out, last.Out) {
			fmt.Printf("\n[%s] Ports:\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", p.In)
			fmt.Printf("  Outputs: %v\n", p.Out)
			last, first = p, false
		}
		time.Sleep(2 * time.Second)
	}
}
