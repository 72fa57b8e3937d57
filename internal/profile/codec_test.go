package profile

import (
	"encoding/json"
	"testing"
)

const minimalProfile = `{
	"ProfileName": "Test Profile",
	"MidiDevices": [
		{
			"DeviceName": "nanoKONTROL2",
			"Mappings": [
				{
					"Id": "m1",
					"InputType": "NoteOn",
					"Channel": 1,
					"Note": 36,
					"Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 65}}
				}
			]
		}
	]
}`

func TestDecodeMinimalProfile(t *testing.T) {
	result, err := Decode([]byte(minimalProfile))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(result.Rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", result.Rejected)
	}
	if result.Profile.Registry.Size() != 1 {
		t.Fatalf("registry size = %d, want 1", result.Profile.Registry.Size())
	}
}

func TestDecodeRejectsUnknownActionType(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"MidiDevices": [{
			"DeviceName": "d",
			"Mappings": [{
				"Id": "m1", "InputType": "NoteOn", "Channel": 1, "Note": 1,
				"Action": {"$type": "NotARealAction"}
			}]
		}]
	}`
	result, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode should not hard-fail on one bad mapping: %v", err)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("rejected = %v, want 1 entry", result.Rejected)
	}
	if result.Profile.Registry.Size() != 0 {
		t.Fatalf("registry size = %d, want 0", result.Profile.Registry.Size())
	}
}

func TestDecodeRejectsDuplicateMappingIDs(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"MidiDevices": [{
			"DeviceName": "d",
			"Mappings": [
				{"Id": "dup", "InputType": "NoteOn", "Channel": 1, "Note": 1, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}},
				{"Id": "dup", "InputType": "NoteOn", "Channel": 1, "Note": 2, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 2}}}
			]
		}]
	}`
	result, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("rejected = %v, want 1 entry for the duplicate id", result.Rejected)
	}
	if result.Profile.Registry.Size() != 1 {
		t.Fatalf("registry size = %d, want 1 (first id wins)", result.Profile.Registry.Size())
	}
}

func TestDecodeDisabledMappingExcludedFromRegistry(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"MidiDevices": [{
			"DeviceName": "d",
			"Mappings": [
				{"Id": "m1", "InputType": "NoteOn", "Channel": 1, "Note": 1, "IsEnabled": false, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}}
			]
		}]
	}`
	result, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if result.Profile.Registry.Size() != 0 {
		t.Fatalf("registry size = %d, want 0 for a disabled mapping", result.Profile.Registry.Size())
	}
}

func TestDecodeAppliesDeviceDefaults(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"MidiDevices": [{
			"DeviceName": "d",
			"Defaults": {"IsEnabled": true, "Channel": 5},
			"Mappings": [
				{"Id": "m1", "InputType": "NoteOn", "Note": 1, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}}
			]
		}]
	}`
	result, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Profile.Devices) != 1 || len(result.Profile.Devices[0].Mappings) != 1 {
		t.Fatalf("expected one decoded mapping, got %+v", result.Profile.Devices)
	}
	got := result.Profile.Devices[0].Mappings[0].Input.Channel
	if got != 5 {
		t.Fatalf("channel = %d, want 5 from device Defaults", got)
	}
}

func TestDecodeWarnsOnUnreferencedInitialState(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"InitialStates": {"9": 1},
		"MidiDevices": [{
			"DeviceName": "d",
			"Mappings": [
				{"Id": "m1", "InputType": "NoteOn", "Channel": 1, "Note": 1, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}}
			]
		}]
	}`
	result, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range result.Warnings {
		if w == "initial state key 9 is not referenced by any stateful action" {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want one about unreferenced state key 9", result.Warnings)
	}
}

func TestDecodeRejectsMissingEnvelopeFields(t *testing.T) {
	_, err := Decode([]byte(`{"MidiDevices": []}`))
	if err == nil {
		t.Fatal("expected envelope validation error for missing ProfileName")
	}
}

func TestDecodeRejectsInvalidSysExPattern(t *testing.T) {
	doc := `{
		"ProfileName": "p",
		"MidiDevices": [{
			"DeviceName": "d",
			"Mappings": [{
				"Id": "m1", "InputType": "SysEx",
				"SysExPattern": [240, 999, 247],
				"Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}
			}]
		}]
	}`
	_, err := Decode([]byte(doc))
	if err == nil {
		t.Fatal("expected envelope validation to reject a SysExPattern byte above 255")
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	doc := `{
		"ProfileName": "Round Trip",
		"InitialStates": {"5": 3},
		"MidiDevices": [{
			"DeviceName": "nanoKONTROL2",
			"Mappings": [
				{
					"Id": "vol", "Description": "Volume up/down", "InputType": "ControlChangeAbsolute", "Channel": 1, "ControlNumber": 7,
					"Action": {"$type": "Conditional", "Parameters": {
						"Conditions": [{"MinValue": 0, "MaxValue": 63, "Action": {"$type": "KeyPressRelease", "Parameters": {"VK": 1}}}]
					}}
				},
				{
					"Id": "sysex1", "InputType": "SysEx", "SysExPattern": [240, 67, 255, 247],
					"Action": {"$type": "StateSet", "Parameters": {"StateKey": 5, "Value": 7}}
				}
			]
		}]
	}`
	first, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("initial Decode failed: %v", err)
	}
	if len(first.Rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", first.Rejected)
	}

	encoded, err := Encode(first.Profile)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	second, err := Decode(encoded)
	if err != nil {
		t.Fatalf("re-decoding the encoded profile failed: %v\n%s", err, encoded)
	}
	if len(second.Rejected) != 0 {
		t.Fatalf("unexpected rejections after round trip: %v", second.Rejected)
	}
	if second.Profile.Name != first.Profile.Name {
		t.Fatalf("ProfileName = %q, want %q", second.Profile.Name, first.Profile.Name)
	}
	if second.Profile.Registry.Size() != first.Profile.Registry.Size() {
		t.Fatalf("registry size = %d, want %d", second.Profile.Registry.Size(), first.Profile.Registry.Size())
	}
	if second.Profile.InitialStates[5] != 3 {
		t.Fatalf("InitialStates[5] = %d, want 3", second.Profile.InitialStates[5])
	}
}

func TestDecodeActionNestedSubAction(t *testing.T) {
	node := wireAction{
		Type: "Conditional",
		Parameters: map[string]json.RawMessage{
			"Conditions": json.RawMessage(`[{"MinValue":0,"MaxValue":63,"Action":{"$type":"KeyPressRelease","Parameters":{"VK":1}}}]`),
		},
	}
	act, warnings, err := DecodeAction(node)
	if err != nil {
		t.Fatalf("DecodeAction failed: %v (warnings: %v)", err, warnings)
	}
	if act.Kind() != "Conditional" {
		t.Fatalf("Kind() = %q, want Conditional", act.Kind())
	}
}
