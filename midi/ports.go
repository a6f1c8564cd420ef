package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Ports are only visible once a driver is registered; programs import
// gitlab.com/gomidi/midi/v2/drivers/rtmididrv for that.

// ErrTimeout is returned when the MIDI system does not answer a port scan.
var ErrTimeout = errors.New("MIDI port scan timed out")

// ScanTimeout bounds port enumeration (CoreMIDI can hang).
const ScanTimeout = 3 * time.Second

// Ports lists input and output port names.
type Ports struct {
	In  []string
	Out []string
}

// ListPorts enumerates ports, giving up after timeout.
func ListPorts(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		var p Ports
		for _, in := range gomidi.GetInPorts() {
			p.In = append(p.In, in.String())
		}
		for _, out := range gomidi.GetOutPorts() {
			p.Out = append(p.Out, out.String())
		}
		ch <- p
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return Ports{}, ErrTimeout
	}
}

// Out is an open output port.
type Out struct {
	name string
	port drivers.Out
	send func(gomidi.Message) error
}

// OpenOut opens the first output port whose name contains name
// (case-insensitive). An empty name picks the first port.
func OpenOut(name string) (*Out, error) {
	want := strings.ToLower(name)
	for _, port := range gomidi.GetOutPorts() {
		if want != "" && !strings.Contains(strings.ToLower(port.String()), want) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open port %s: %w", port.String(), err)
		}
		return &Out{name: port.String(), port: port, send: send}, nil
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", name)
}

// Name is the full port name.
func (o *Out) Name() string { return o.name }

// NoteOn sends a note-on message.
func (o *Out) NoteOn(n Note) error {
	return o.send(gomidi.NoteOn(n.Channel, n.Key, n.Velocity))
}

// NoteOff sends a note-off message.
func (o *Out) NoteOff(n Note) error {
	return o.send(gomidi.NoteOff(n.Channel, n.Key))
}

// Close closes the port.
func (o *Out) Close() error {
	return o.port.Close()
}

// CloseDriver shuts the MIDI driver down. Call once at exit.
func CloseDriver() {
	gomidi.CloseDriver()
}
