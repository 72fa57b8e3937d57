package event

import "testing"

func TestNumericValue(t *testing.T) {
	cases := []struct {
		name string
		e    Event
		want int
		ok   bool
	}{
		{"note on uses velocity", Event{Kind: KindNoteOn, Velocity: 100}, 100, true},
		{"note off uses velocity", Event{Kind: KindNoteOff, Velocity: 0}, 0, true},
		{"control change uses value", Event{Kind: KindControlChange, Value: 42}, 42, true},
		{"pitch bend uses 14-bit value", Event{Kind: KindPitchBend, PitchBend: 8192}, 8192, true},
		{"program change uses program", Event{Kind: KindProgramChange, Program: 5}, 5, true},
		{"channel pressure uses pressure", Event{Kind: KindChannelPressure, Pressure: 64}, 64, true},
		{"poly key pressure uses pressure", Event{Kind: KindPolyKeyPressure, Pressure: 10}, 10, true},
		{"sysex has no numeric value", Event{Kind: KindSysEx, SysExBytes: []byte{0xF0, 0xF7}}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.e.NumericValue()
			if ok != c.ok || got != c.want {
				t.Fatalf("NumericValue() = (%d, %v), want (%d, %v)", got, ok, c.want, c.ok)
			}
		})
	}
}
