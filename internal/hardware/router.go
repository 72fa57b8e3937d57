package hardware

import (
	"fmt"

	"github.com/midiflux/midiflux/internal/action/effector"
)

// Router implements effector.MidiOutput across every open Device, so
// MIDI-out actions can address a device by ID or fall back to the first
// device with an open output port when DeviceID is "*" or empty.
type Router struct {
	devices map[string]*Device
	order   []string
}

// NewRouter builds a Router over devices, keyed by their DeviceID.
func NewRouter(devices ...*Device) *Router {
	r := &Router{devices: make(map[string]*Device, len(devices))}
	for _, d := range devices {
		r.devices[d.DeviceID] = d
		r.order = append(r.order, d.DeviceID)
	}
	return r
}

// Send implements effector.MidiOutput.
func (r *Router) Send(cmd effector.MidiOutputCommand) error {
	if cmd.DeviceID == "" || cmd.DeviceID == "*" {
		for _, id := range r.order {
			if err := r.devices[id].Send(cmd.Bytes); err == nil {
				return nil
			}
		}
		return fmt.Errorf("hardware: no open output port available for wildcard send")
	}
	d, ok := r.devices[cmd.DeviceID]
	if !ok {
		return fmt.Errorf("hardware: unknown MIDI-out device %q", cmd.DeviceID)
	}
	return d.Send(cmd.Bytes)
}
