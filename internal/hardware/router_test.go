package hardware

import (
	"testing"

	"github.com/midiflux/midiflux/internal/action/effector"
)

// These devices are never Open()ed, so Send always fails with "no open
// output port" — enough to exercise Router's routing decisions without a
// real MIDI driver.

func TestRouterSendToNamedDevice(t *testing.T) {
	r := NewRouter(NewDevice("deviceA", "", ""), NewDevice("deviceB", "", ""))
	err := r.Send(effector.MidiOutputCommand{DeviceID: "deviceB", Bytes: []byte{0x90, 60, 100}})
	if err == nil {
		t.Fatal("expected an error since deviceB has no open output port")
	}
}

func TestRouterSendToUnknownDeviceErrors(t *testing.T) {
	r := NewRouter(NewDevice("deviceA", "", ""))
	err := r.Send(effector.MidiOutputCommand{DeviceID: "doesNotExist", Bytes: []byte{0x90}})
	if err == nil {
		t.Fatal("expected an error for an unrouted device id")
	}
}

func TestRouterWildcardFallsBackAcrossDevices(t *testing.T) {
	r := NewRouter(NewDevice("deviceA", "", ""), NewDevice("deviceB", "", ""))
	err := r.Send(effector.MidiOutputCommand{DeviceID: "*", Bytes: []byte{0x90}})
	if err == nil {
		t.Fatal("expected wildcard send to fail when no device has an open output port")
	}
}

func TestRouterEmptyDeviceIDBehavesAsWildcard(t *testing.T) {
	r := NewRouter(NewDevice("deviceA", "", ""))
	errEmpty := r.Send(effector.MidiOutputCommand{Bytes: []byte{0x90}})
	errStar := r.Send(effector.MidiOutputCommand{DeviceID: "*", Bytes: []byte{0x90}})
	if (errEmpty == nil) != (errStar == nil) {
		t.Fatalf("empty DeviceID and \"*\" should behave identically, got %v vs %v", errEmpty, errStar)
	}
}
