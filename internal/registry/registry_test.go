package registry

import (
	"testing"

	"github.com/midiflux/midiflux/internal/event"
)

func mapping(id string, input MappingInput) Mapping {
	return Mapping{ID: id, Enabled: true, Input: input}
}

func TestLookupPriorityOrder(t *testing.T) {
	pairs := []DeviceMapping{
		{DeviceName: "nanoKONTROL2", Mapping: mapping("exact", MappingInput{
			DeviceName: "nanoKONTROL2", Channel: 1, Type: InputNoteOn, InputNumber: 36,
		})},
		{DeviceName: "nanoKONTROL2", Mapping: mapping("wild-channel", MappingInput{
			DeviceName: "nanoKONTROL2", ChannelIsAny: true, Type: InputNoteOn, InputNumber: 36,
		})},
		{DeviceName: "", Mapping: mapping("wild-device", MappingInput{
			Channel: 1, Type: InputNoteOn, InputNumber: 36,
		})},
		{DeviceName: "", Mapping: mapping("both-wild", MappingInput{
			ChannelIsAny: true, Type: InputNoteOn, InputNumber: 36,
		})},
	}
	r := Build(pairs)

	e := event.Event{DeviceID: "nanoKONTROL2", Channel: 1, Kind: event.KindNoteOn, Note: 36}
	got := r.Lookup(e, InputNoteOn, 36)
	if len(got) != 4 {
		t.Fatalf("got %d matches, want 4", len(got))
	}
	want := []string{"exact", "wild-channel", "wild-device", "both-wild"}
	for i, w := range want {
		if got[i].ID != w {
			t.Fatalf("match[%d] = %q, want %q (order = %v)", i, got[i].ID, w, idsOf(got))
		}
	}
}

func idsOf(mappings []*Mapping) []string {
	out := make([]string, len(mappings))
	for i, m := range mappings {
		out[i] = m.ID
	}
	return out
}

func TestLookupMissReturnsEmpty(t *testing.T) {
	r := Build(nil)
	e := event.Event{DeviceID: "anything", Channel: 1, Kind: event.KindNoteOn, Note: 10}
	got := r.Lookup(e, InputNoteOn, 10)
	if len(got) != 0 {
		t.Fatalf("got %v, want no matches", got)
	}
}

func TestLookupDistinguishesInputNumber(t *testing.T) {
	pairs := []DeviceMapping{
		{DeviceName: "dev", Mapping: mapping("note36", MappingInput{DeviceName: "dev", Channel: 1, Type: InputNoteOn, InputNumber: 36})},
		{DeviceName: "dev", Mapping: mapping("note37", MappingInput{DeviceName: "dev", Channel: 1, Type: InputNoteOn, InputNumber: 37})},
	}
	r := Build(pairs)
	e := event.Event{DeviceID: "dev", Channel: 1, Kind: event.KindNoteOn, Note: 36}
	got := r.Lookup(e, InputNoteOn, 36)
	if len(got) != 1 || got[0].ID != "note36" {
		t.Fatalf("got %v, want only note36", idsOf(got))
	}
}

func TestFilterSysExKeepsUnpatternedAndMatching(t *testing.T) {
	withPattern := &Mapping{ID: "patterned", Input: MappingInput{SysExPattern: []byte{0xF0, 0x43, 0xF7}}}
	noPattern := &Mapping{ID: "bare", Input: MappingInput{}}
	nonMatching := &Mapping{ID: "nope", Input: MappingInput{SysExPattern: []byte{0xF0, 0x44, 0xF7}}}

	matches := func(received, pattern []byte) bool {
		if len(received) != len(pattern) {
			return false
		}
		for i := range pattern {
			if pattern[i] != 0xFF && pattern[i] != received[i] {
				return false
			}
		}
		return true
	}

	got := FilterSysEx([]*Mapping{withPattern, noPattern, nonMatching}, []byte{0xF0, 0x43, 0xF7}, matches)
	if len(got) != 2 {
		t.Fatalf("got %v, want patterned+bare", idsOf(got))
	}
}

func TestSize(t *testing.T) {
	pairs := []DeviceMapping{
		{DeviceName: "a", Mapping: mapping("1", MappingInput{DeviceName: "a", Channel: 1, Type: InputNoteOn, InputNumber: 1})},
		{DeviceName: "a", Mapping: mapping("2", MappingInput{DeviceName: "a", Channel: 1, Type: InputNoteOn, InputNumber: 2})},
	}
	r := Build(pairs)
	if got := r.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
}
