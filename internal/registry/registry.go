// Package registry implements the immutable Mapping Registry (C3): the
// lookup from a normalized event's (device, channel, input type, input
// number) onto an ordered action list, with four-level wildcard fallback.
package registry

import (
	"github.com/midiflux/midiflux/internal/action"
	"github.com/midiflux/midiflux/internal/event"
	"github.com/samber/lo"
)

// Wildcard is the device/channel placeholder, §3/§4.3.
const Wildcard = "*"

// InputType enumerates the kinds of MIDI input a Mapping can bind to.
type InputType string

const (
	InputNoteOn              InputType = "NoteOn"
	InputNoteOff             InputType = "NoteOff"
	InputControlChangeAbs    InputType = "ControlChangeAbsolute"
	InputControlChangeRel    InputType = "ControlChangeRelative"
	InputProgramChange       InputType = "ProgramChange"
	InputPitchBend           InputType = "PitchBend"
	InputChannelPressure     InputType = "ChannelPressure"
	InputPolyKeyPressure     InputType = "PolyKeyPressure"
	InputSysEx               InputType = "SysEx"
)

// MappingInput is the match criteria side of a Mapping (§3).
type MappingInput struct {
	DeviceName   string // concrete name or Wildcard
	Channel      int    // 1..16; ignored when ChannelIsAny is set
	ChannelIsAny bool
	Type         InputType
	InputNumber  int
	SysExPattern []byte // only meaningful when Type == InputSysEx
}

// Mapping is one (MIDI input -> action) binding inside a profile (§3).
type Mapping struct {
	ID          string
	Description string
	Enabled     bool
	Input       MappingInput
	Action      action.Action
}

// key is the composite lookup key (§4.3): device/channel use Wildcard for
// "*"; InputNumber is 0 for input types where §3 says it is ignored.
type key struct {
	device string
	channel string
	typ     InputType
	number  int
}

// Registry is the immutable, constant-time lookup built once per profile
// load (§4.3). It is never mutated after construction; a changed mapping
// set always produces a new Registry.
type Registry struct {
	buckets map[key][]entry
}

type entry struct {
	mapping *Mapping
}

// DeviceMapping pairs a device block's name with one of its mappings, the
// shape Build consumes.
type DeviceMapping struct {
	DeviceName string
	Mapping    Mapping
}

func channelKeyPart(m MappingInput) string {
	if m.ChannelIsAny {
		return Wildcard
	}
	return channelString(m.Channel)
}

func channelString(ch int) string {
	// Small, fixed domain (1..16): avoid strconv churn in the hot path
	// the way the lookup table itself avoids it.
	const digits = "0123456789"
	if ch <= 0 {
		return "0"
	}
	if ch < 10 {
		return string(digits[ch])
	}
	return "1" + string(digits[ch-10])
}

// Build constructs a Registry from a flat list of (device, mapping)
// pairs. Insertion order is preserved within each bucket (§4.3).
func Build(pairs []DeviceMapping) *Registry {
	buckets := make(map[key][]entry)
	for i := range pairs {
		p := pairs[i]
		device := p.DeviceName
		if device == "" {
			device = Wildcard
		}
		k := key{
			device:  device,
			channel: channelKeyPart(p.Mapping.Input),
			typ:     p.Mapping.Input.Type,
			number:  p.Mapping.Input.InputNumber,
		}
		m := p.Mapping
		buckets[k] = append(buckets[k], entry{mapping: &m})
	}
	return &Registry{buckets: buckets}
}

// Lookup returns the actions to execute for an incoming event, in
// priority order: exact, wildcard-channel, wildcard-device, both-wildcard
// (§4.3). Matches from all four keys are concatenated; order within a
// bucket is insertion order. A miss at every level returns an empty,
// non-error list.
func (r *Registry) Lookup(e event.Event, typ InputType, inputNumber int) []*Mapping {
	ch := channelString(int(e.Channel))
	device := e.DeviceID

	keys := [4]key{
		{device: device, channel: ch, typ: typ, number: inputNumber},
		{device: device, channel: Wildcard, typ: typ, number: inputNumber},
		{device: Wildcard, channel: ch, typ: typ, number: inputNumber},
		{device: Wildcard, channel: Wildcard, typ: typ, number: inputNumber},
	}

	var out []*Mapping
	for _, k := range keys {
		for _, en := range r.buckets[k] {
			out = append(out, en.mapping)
		}
	}
	return out
}

// FilterSysEx keeps only mappings whose pattern matches received, or that
// carry no pattern at all (§4.3's SysEx post-filter).
func FilterSysEx(mappings []*Mapping, received []byte, matches func(received, pattern []byte) bool) []*Mapping {
	return lo.Filter(mappings, func(m *Mapping, _ int) bool {
		if len(m.Input.SysExPattern) == 0 {
			return true
		}
		return matches(received, m.Input.SysExPattern)
	})
}

// Size reports how many mappings the registry holds in total, for
// diagnostics/metrics.
func (r *Registry) Size() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}
