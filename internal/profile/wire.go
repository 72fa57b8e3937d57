package profile

import "encoding/json"

// The JSON wire format (§6). Field names are PascalCase to match the
// on-disk, compatibility-critical profile documents MIDIFlux has always
// shipped.

type wireProfile struct {
	ProfileName   string            `json:"ProfileName"`
	Description   string            `json:"Description,omitempty"`
	FormatVersion string            `json:"FormatVersion,omitempty"`
	InitialStates map[string]int    `json:"InitialStates,omitempty"`
	MidiDevices   []wireDeviceBlock `json:"MidiDevices"`
}

type wireMappingDefaults struct {
	IsEnabled *bool `json:"IsEnabled,omitempty"`
	Channel   *int  `json:"Channel,omitempty"`
}

type wireDeviceBlock struct {
	DeviceName  string                `json:"DeviceName"`
	Description string                `json:"Description,omitempty"`
	Defaults    *wireMappingDefaults  `json:"Defaults,omitempty"`
	Mappings    []wireMapping         `json:"Mappings"`
}

type wireMapping struct {
	ID            string          `json:"Id"`
	Description   string          `json:"Description"`
	IsEnabled     *bool           `json:"IsEnabled,omitempty"`
	InputType     string          `json:"InputType"`
	Channel       *int            `json:"Channel,omitempty"`
	Note          *int            `json:"Note,omitempty"`
	ControlNumber *int            `json:"ControlNumber,omitempty"`
	SysExPattern  []int           `json:"SysExPattern,omitempty"`
	Action        wireAction      `json:"Action"`
}

type wireAction struct {
	Type        string                     `json:"$type"`
	Description string                     `json:"Description,omitempty"`
	Parameters  map[string]json.RawMessage `json:"Parameters,omitempty"`
}

type wireValueCondition struct {
	MinValue    int        `json:"MinValue"`
	MaxValue    int        `json:"MaxValue"`
	Action      wireAction `json:"Action"`
	Description string     `json:"Description,omitempty"`
}
