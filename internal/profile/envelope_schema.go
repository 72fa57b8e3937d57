package profile

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeSchemaJSON validates the profile document's envelope (§6) before
// the $type-driven decode walk runs: required top-level fields, the
// closed InputType enum, and the basic shape of a mapping. Per-action
// parameter validation still happens in Go against the Action Type
// Registry's schema, since jsonschema has no notion of that registry.
const envelopeSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["ProfileName", "MidiDevices"],
	"properties": {
		"ProfileName": {"type": "string", "minLength": 1},
		"Description": {"type": "string"},
		"FormatVersion": {"type": "string"},
		"InitialStates": {
			"type": "object",
			"additionalProperties": {"type": "integer"}
		},
		"MidiDevices": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["DeviceName", "Mappings"],
				"properties": {
					"DeviceName": {"type": "string", "minLength": 1},
					"Description": {"type": "string"},
					"Mappings": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["Id", "InputType", "Action"],
							"properties": {
								"Id": {"type": "string", "minLength": 1},
								"Description": {"type": "string"},
								"IsEnabled": {"type": "boolean"},
								"InputType": {
									"enum": ["NoteOn", "NoteOff", "ControlChangeAbsolute", "ControlChangeRelative",
										"ProgramChange", "PitchBend", "ChannelPressure", "PolyKeyPressure", "SysEx"]
								},
								"Channel": {"type": "integer", "minimum": 1, "maximum": 16},
								"Note": {"type": "integer", "minimum": 0, "maximum": 127},
								"ControlNumber": {"type": "integer", "minimum": 0, "maximum": 127},
								"SysExPattern": {
									"type": "array",
									"items": {"type": "integer", "minimum": 0, "maximum": 255}
								},
								"Action": {
									"type": "object",
									"required": ["$type"],
									"properties": {
										"$type": {"type": "string", "minLength": 1}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

var envelopeSchema = mustCompileEnvelopeSchema()

func mustCompileEnvelopeSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	const resourceName = "midiflux-profile-envelope.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader([]byte(envelopeSchemaJSON))); err != nil {
		panic(fmt.Sprintf("profile: invalid embedded envelope schema: %v", err))
	}
	schema, err := compiler.Compile(resourceName)
	if err != nil {
		panic(fmt.Sprintf("profile: failed to compile embedded envelope schema: %v", err))
	}
	return schema
}

// validateEnvelope runs the profile document through the JSON Schema
// before any $type decoding starts.
func validateEnvelope(doc interface{}) error {
	if err := envelopeSchema.Validate(doc); err != nil {
		return fmt.Errorf("profile envelope validation: %w", err)
	}
	return nil
}
