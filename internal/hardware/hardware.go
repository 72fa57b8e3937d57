// Package hardware adapts the real MIDI transport (gitlab.com/gomidi/midi/v2
// plus its portmididrv backend) to the engine's normalized Event model
// (C1), matching the teacher's direct-driver-call style rather than
// interposing an extra abstraction layer.
package hardware

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	driver "gitlab.com/gomidi/midi/v2/drivers/portmididrv"

	"github.com/midiflux/midiflux/internal/event"
)

// Ports lists the names of every enumerated MIDI in/out port, for
// "--list-devices" style CLI output.
func Ports() (ins []string, outs []string, err error) {
	drv, err := driver.New()
	if err != nil {
		return nil, nil, fmt.Errorf("hardware: opening driver: %w", err)
	}
	defer drv.Close()

	inPorts, err := drv.Ins()
	if err != nil {
		return nil, nil, fmt.Errorf("hardware: listing inputs: %w", err)
	}
	outPorts, err := drv.Outs()
	if err != nil {
		return nil, nil, fmt.Errorf("hardware: listing outputs: %w", err)
	}
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// Device owns one input/output port pair and normalizes everything it
// receives into event.Event, tagging each with DeviceID so the registry's
// per-device lookup (§4.3) has something to match against.
type Device struct {
	log zerolog.Logger

	DeviceID string
	InName   string
	OutName  string

	mu      sync.Mutex
	drv     drivers.Driver
	in      drivers.In
	out     drivers.Out
	stopFn  func()
	running bool
}

// NewDevice names the logical device ID used in mappings and the MIDI
// port names used to find in/out ports on the system.
func NewDevice(deviceID, inName, outName string) *Device {
	return &Device{
		log:      log.With().Str("module", "Hardware").Str("device", deviceID).Logger(),
		DeviceID: deviceID,
		InName:   inName,
		OutName:  outName,
	}
}

// Open finds and opens the named ports. Either port may be absent; Out
// being nil disables MIDI-out actions for this device, In being nil
// means the device never produces events.
func (d *Device) Open() error {
	drv, err := driver.New()
	if err != nil {
		return fmt.Errorf("hardware: opening driver: %w", err)
	}
	d.drv = drv

	if d.InName != "" {
		in, err := midi.FindInPort(d.InName)
		if err != nil {
			d.log.Warn().Str("port", d.InName).Msg("MIDI in port not found")
		} else {
			if err := in.Open(); err != nil {
				return fmt.Errorf("hardware: opening in port %s: %w", d.InName, err)
			}
			d.in = in
		}
	}
	if d.OutName != "" {
		out, err := midi.FindOutPort(d.OutName)
		if err != nil {
			d.log.Warn().Str("port", d.OutName).Msg("MIDI out port not found")
		} else {
			if err := out.Open(); err != nil {
				return fmt.Errorf("hardware: opening out port %s: %w", d.OutName, err)
			}
			d.out = out
		}
	}
	return nil
}

// Listen starts delivering normalized events to handle until Close is
// called. Channel carries the 1-based channel convention of §4.1: the
// wire protocol's 0-based nibble plus one.
func (d *Device) Listen(handle func(event.Event)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.in == nil {
		return fmt.Errorf("hardware: device %s has no open input port", d.DeviceID)
	}
	if d.running {
		return fmt.Errorf("hardware: device %s is already listening", d.DeviceID)
	}

	stop, err := midi.ListenTo(d.in, d.onMessage(handle), midi.UseSysEx())
	if err != nil {
		return fmt.Errorf("hardware: listening on %s: %w", d.InName, err)
	}
	d.stopFn = stop
	d.running = true
	return nil
}

func (d *Device) onMessage(handle func(event.Event)) func(msg midi.Message, timestampMs int32) {
	return func(msg midi.Message, timestampMs int32) {
		now := time.Now()
		switch msg.Type() {
		case midi.NoteOnMsg:
			var ch, note, vel uint8
			msg.GetNoteOn(&ch, &note, &vel)
			if vel == 0 {
				handle(event.Event{Kind: event.KindNoteOff, DeviceID: d.DeviceID, Channel: ch + 1, Note: note, Velocity: 0, Timestamp: now})
				return
			}
			handle(event.Event{Kind: event.KindNoteOn, DeviceID: d.DeviceID, Channel: ch + 1, Note: note, Velocity: vel, Timestamp: now})
		case midi.NoteOffMsg:
			var ch, note, vel uint8
			msg.GetNoteOff(&ch, &note, &vel)
			handle(event.Event{Kind: event.KindNoteOff, DeviceID: d.DeviceID, Channel: ch + 1, Note: note, Velocity: vel, Timestamp: now})
		case midi.ControlChangeMsg:
			var ch, cc, val uint8
			msg.GetControlChange(&ch, &cc, &val)
			handle(event.Event{Kind: event.KindControlChange, DeviceID: d.DeviceID, Channel: ch + 1, Controller: cc, Value: val, Timestamp: now})
		case midi.ProgramChangeMsg:
			var ch, prog uint8
			msg.GetProgramChange(&ch, &prog)
			handle(event.Event{Kind: event.KindProgramChange, DeviceID: d.DeviceID, Channel: ch + 1, Program: prog, Timestamp: now})
		case midi.PitchBendMsg:
			var ch uint8
			var relative int16
			var absolute uint16
			msg.GetPitchBend(&ch, &relative, &absolute)
			handle(event.Event{Kind: event.KindPitchBend, DeviceID: d.DeviceID, Channel: ch + 1, PitchBend: absolute, Timestamp: now})
		case midi.AfterTouchMsg:
			var ch, pressure uint8
			msg.GetAfterTouch(&ch, &pressure)
			handle(event.Event{Kind: event.KindChannelPressure, DeviceID: d.DeviceID, Channel: ch + 1, Pressure: pressure, Timestamp: now})
		case midi.PolyAfterTouchMsg:
			var ch, note, pressure uint8
			msg.GetPolyAfterTouch(&ch, &note, &pressure)
			handle(event.Event{Kind: event.KindPolyKeyPressure, DeviceID: d.DeviceID, Channel: ch + 1, Note: note, Pressure: pressure, Timestamp: now})
		case midi.SysExMsg:
			var raw []byte
			msg.GetSysEx(&raw)
			sysex := make([]byte, 0, len(raw)+2)
			sysex = append(sysex, 0xF0)
			sysex = append(sysex, raw...)
			sysex = append(sysex, 0xF7)
			handle(event.Event{Kind: event.KindSysEx, DeviceID: d.DeviceID, SysExBytes: sysex, Timestamp: now})
		}
	}
}

// Send writes a raw MIDI-out message to this device's output port.
func (d *Device) Send(bytes []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out == nil {
		return fmt.Errorf("hardware: device %s has no open output port", d.DeviceID)
	}
	return d.out.Send(bytes)
}

// Close stops listening and releases both ports.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopFn != nil {
		d.stopFn()
		d.stopFn = nil
		d.running = false
	}
	if d.in != nil {
		d.in.Close()
	}
	if d.out != nil {
		d.out.Close()
	}
	if d.drv != nil {
		return d.drv.Close()
	}
	return nil
}
