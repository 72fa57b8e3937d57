// Package profile implements the Profile Loader / JSON codec (C4) and the
// Profile Manager (C12): the in-memory Profile model, its discriminated
// JSON wire format, and the atomic-swap manager that owns the active
// Registry, State Store, and MIDI-out device handles.
package profile

import "github.com/midiflux/midiflux/internal/registry"

// DeviceBlock groups the mappings declared for one MIDI device (§3).
type DeviceBlock struct {
	DeviceName  string
	Description string
	Mappings    []registry.Mapping
}

// Profile is a complete MIDI-to-action mapping set (§3). Once loaded, a
// Profile exclusively owns its Registry and its action tree.
type Profile struct {
	Name          string
	Description   string
	InitialStates map[int]int
	Devices       []DeviceBlock

	Registry *registry.Registry
}

// LoadResult reports the outcome of decoding a profile document: the
// Profile built from whatever mappings validated, plus every rejected
// mapping and every non-fatal warning (§4.4's "partial success").
type LoadResult struct {
	Profile  *Profile
	Rejected []RejectedMapping
	Warnings []string
}

// RejectedMapping names a mapping that failed to load and why.
type RejectedMapping struct {
	DeviceName string
	MappingID  string
	Err        error
}
