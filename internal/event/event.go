// Package event defines the normalized MIDI event model (C2) that crosses
// the boundary from the hardware adapter into the dispatcher.
package event

import "time"

// Kind discriminates which fields of an Event are populated.
type Kind string

const (
	KindNoteOn          Kind = "NoteOn"
	KindNoteOff         Kind = "NoteOff"
	KindControlChange   Kind = "ControlChange"
	KindProgramChange   Kind = "ProgramChange"
	KindPitchBend       Kind = "PitchBend"
	KindChannelPressure Kind = "ChannelPressure"
	KindPolyKeyPressure Kind = "PolyKeyPressure"
	KindSysEx           Kind = "SysEx"
	KindOther           Kind = "Other"
	KindError           Kind = "Error"
)

// RelativeEncoding hints how a ControlChange's raw byte carries a signed
// delta. The event model does not decode it.
type RelativeEncoding string

const (
	EncodingSignMagnitude  RelativeEncoding = "SignMagnitude"
	EncodingTwosComplement RelativeEncoding = "TwosComplement"
	EncodingBinaryOffset   RelativeEncoding = "BinaryOffset"
)

// Event is an immutable, normalized MIDI event. Exactly the fields defined
// for Kind are meaningful; the rest are zero.
type Event struct {
	Kind      Kind
	DeviceID  string
	Channel   uint8 // 1..16, 1-based per the hardware adapter contract
	Timestamp time.Time

	Note       uint8 // NoteOn, NoteOff, PolyKeyPressure
	Velocity   uint8 // NoteOn, NoteOff
	Controller uint8 // ControlChange
	Value      uint8 // ControlChange (absolute value or raw relative byte)
	Program    uint8 // ProgramChange
	PitchBend  uint16 // PitchBend, 14-bit combined value, center 8192
	Pressure   uint8  // ChannelPressure, PolyKeyPressure

	SysExBytes []byte // SysEx, always F0 ... F7

	RelativeEncoding RelativeEncoding // optional hint; the hardware adapter and dispatcher leave it empty, and RelativeCC decodes by its own Encoding parameter

	Err error // Error kind only
}

// NumericValue returns the canonical numeric payload for the event per
// §4.7/§4.11 step 6, or false if the event carries no numeric payload.
func (e Event) NumericValue() (int, bool) {
	switch e.Kind {
	case KindNoteOn, KindNoteOff:
		return int(e.Velocity), true
	case KindControlChange:
		return int(e.Value), true
	case KindPitchBend:
		return int(e.PitchBend), true
	case KindProgramChange:
		return int(e.Program), true
	case KindChannelPressure, KindPolyKeyPressure:
		return int(e.Pressure), true
	default:
		return 0, false
	}
}
