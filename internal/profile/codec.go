package profile

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/multierr"

	"github.com/midiflux/midiflux/internal/action"
	"github.com/midiflux/midiflux/internal/registry"
	"github.com/midiflux/midiflux/internal/sysex"
)

// supportedFormatVersions bounds the profile "FormatVersion" field this
// engine understands. A profile with no FormatVersion is treated as the
// current version; one outside the range loads with a warning, not a
// rejection — the envelope and $type schema are still authoritative.
var supportedFormatVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint(">= 1.0.0, < 2.0.0")
	if err != nil {
		panic(err)
	}
	return c
}()

// Decode parses a profile JSON document (§6) into a Profile, following the
// algorithm of §4.4: schema-validate the envelope, then walk each mapping,
// installing whatever validates and reporting the rest (partial success).
func Decode(data []byte) (LoadResult, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return LoadResult{}, fmt.Errorf("profile: invalid JSON: %w", err)
	}
	if err := validateEnvelope(generic); err != nil {
		return LoadResult{}, err
	}

	var doc wireProfile
	if err := json.Unmarshal(data, &doc); err != nil {
		return LoadResult{}, fmt.Errorf("profile: invalid JSON: %w", err)
	}

	result := LoadResult{}
	if doc.FormatVersion != "" {
		if v, err := semver.NewVersion(doc.FormatVersion); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unparseable FormatVersion %q", doc.FormatVersion))
		} else if !supportedFormatVersions.Check(v) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("FormatVersion %q is outside the supported range", doc.FormatVersion))
		}
	}

	p := &Profile{
		Name:          doc.ProfileName,
		Description:   doc.Description,
		InitialStates: make(map[int]int, len(doc.InitialStates)),
	}
	for k, v := range doc.InitialStates {
		var key int
		if _, err := fmt.Sscanf(k, "%d", &key); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("InitialStates key %q is not an integer, ignored", k))
			continue
		}
		p.InitialStates[key] = v
	}

	seenIDs := make(map[string]bool)
	var pairs []registry.DeviceMapping

	for _, wd := range doc.MidiDevices {
		block := DeviceBlock{DeviceName: wd.DeviceName, Description: wd.Description}
		for _, wm := range wd.Mappings {
			if wd.Defaults != nil {
				if err := mergo.Merge(&wm, wireMapping{IsEnabled: wd.Defaults.IsEnabled, Channel: wd.Defaults.Channel}); err != nil {
					result.Rejected = append(result.Rejected, RejectedMapping{DeviceName: wd.DeviceName, MappingID: wm.ID, Err: err})
					continue
				}
			}

			if wm.IsEnabled != nil && !*wm.IsEnabled {
				continue // disabled mappings never enter the registry (§3)
			}

			m, warnings, err := decodeMapping(wm)
			result.Warnings = append(result.Warnings, warnings...)
			if err != nil {
				result.Rejected = append(result.Rejected, RejectedMapping{DeviceName: wd.DeviceName, MappingID: wm.ID, Err: err})
				continue
			}
			if seenIDs[m.ID] {
				result.Rejected = append(result.Rejected, RejectedMapping{DeviceName: wd.DeviceName, MappingID: m.ID, Err: fmt.Errorf("duplicate mapping id %q", m.ID)})
				continue
			}
			seenIDs[m.ID] = true

			block.Mappings = append(block.Mappings, *m)
			pairs = append(pairs, registry.DeviceMapping{DeviceName: wd.DeviceName, Mapping: *m})
		}
		p.Devices = append(p.Devices, block)
	}

	for key := range p.InitialStates {
		if !stateKeyReferenced(p.Devices, key) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("initial state key %d is not referenced by any stateful action", key))
		}
	}

	p.Registry = registry.Build(pairs)
	result.Profile = p
	return result, nil
}

func stateKeyReferenced(devices []DeviceBlock, key int) bool {
	found := false
	visit := func(a action.Action) error {
		for _, name := range []string{"StateKey", "AccelerationStateKey"} {
			if v, ok := a.GetParameter(name); ok && v.Kind == action.KindInteger && v.Int == key {
				found = true
			}
		}
		return nil
	}
	for _, d := range devices {
		for _, m := range d.Mappings {
			_ = action.Walk(m.Action, visit)
		}
	}
	return found
}

func decodeMapping(wm wireMapping) (*registry.Mapping, []string, error) {
	typ := registry.InputType(wm.InputType)
	switch typ {
	case registry.InputNoteOn, registry.InputNoteOff, registry.InputControlChangeAbs, registry.InputControlChangeRel,
		registry.InputProgramChange, registry.InputPitchBend, registry.InputChannelPressure,
		registry.InputPolyKeyPressure, registry.InputSysEx:
	default:
		return nil, nil, fmt.Errorf("unknown input type %q", wm.InputType)
	}

	input := registry.MappingInput{Type: typ}
	if wm.Channel == nil {
		input.ChannelIsAny = true
	} else {
		if *wm.Channel < 1 || *wm.Channel > 16 {
			return nil, nil, fmt.Errorf("channel %d out of range [1,16]", *wm.Channel)
		}
		input.Channel = *wm.Channel
	}

	switch typ {
	case registry.InputNoteOn, registry.InputNoteOff, registry.InputPolyKeyPressure:
		if wm.Note != nil {
			input.InputNumber = *wm.Note
		}
	case registry.InputControlChangeAbs, registry.InputControlChangeRel:
		if wm.ControlNumber != nil {
			input.InputNumber = *wm.ControlNumber
		}
	case registry.InputProgramChange:
		if wm.Note != nil {
			input.InputNumber = *wm.Note
		}
	}

	if len(wm.SysExPattern) > 0 {
		pattern := make([]byte, len(wm.SysExPattern))
		for i, b := range wm.SysExPattern {
			pattern[i] = byte(b)
		}
		if !sysex.Valid(pattern) {
			return nil, nil, fmt.Errorf("invalid SysEx pattern %v", wm.SysExPattern)
		}
		input.SysExPattern = pattern
	}

	act, warnings, err := DecodeAction(wm.Action)
	if err != nil {
		return nil, warnings, err
	}

	return &registry.Mapping{
		ID:          wm.ID,
		Description: wm.Description,
		Enabled:     true,
		Input:       input,
		Action:      act,
	}, warnings, nil
}

// DecodeAction implements §4.4's six-step action-node decode algorithm. It
// is exported so tests (and, conceptually, a future editor) can decode a
// single action subtree without a full profile document.
func DecodeAction(node wireAction) (action.Action, []string, error) {
	desc, ok := action.Lookup(node.Type)
	if !ok {
		return nil, nil, fmt.Errorf("unknown action $type %q", node.Type)
	}
	inst, err := action.New(node.Type)
	if err != nil {
		return nil, nil, err
	}
	inst.SetDescription(node.Description)

	var warnings []string
	var errs error
	for name, raw := range node.Parameters {
		schema, ok := findSchema(desc.Schema, name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("action %q: unknown parameter %q ignored", node.Type, name))
			continue
		}
		value, subWarnings, err := decodeParamValue(schema, raw)
		warnings = append(warnings, subWarnings...)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("action %q parameter %q: %w", node.Type, name, err))
			continue
		}
		if err := inst.SetParameter(name, value); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("action %q parameter %q: %w", node.Type, name, err))
		}
	}
	if errs != nil {
		return nil, warnings, errs
	}
	if err := inst.Bag().CheckRequired(); err != nil {
		return nil, warnings, fmt.Errorf("action %q: %w", node.Type, err)
	}
	return inst, warnings, nil
}

func findSchema(schemas []action.Schema, name string) (action.Schema, bool) {
	for _, s := range schemas {
		if s.Name == name {
			return s, true
		}
	}
	return action.Schema{}, false
}

func decodeParamValue(schema action.Schema, raw json.RawMessage) (action.Value, []string, error) {
	switch schema.Kind {
	case action.KindInteger:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return action.Value{}, nil, err
		}
		return action.IntValue(v), nil, nil
	case action.KindEnum:
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			if v, ok := schema.EnumByName(name); ok {
				return action.EnumValue(v), nil, nil
			}
			return action.Value{}, nil, fmt.Errorf("%q is not a declared enum alternative", name)
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return action.Value{}, nil, fmt.Errorf("enum parameter must be a string or integer")
		}
		return action.EnumValue(v), nil, nil
	case action.KindBoolean:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return action.Value{}, nil, err
		}
		return action.BoolValue(v), nil, nil
	case action.KindString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return action.Value{}, nil, err
		}
		return action.StringValue(v), nil, nil
	case action.KindByteArray:
		var ints []int
		if err := json.Unmarshal(raw, &ints); err != nil {
			return action.Value{}, nil, err
		}
		bytesOut := make([]byte, len(ints))
		for i, n := range ints {
			bytesOut[i] = byte(n)
		}
		return action.BytesValue(bytesOut), nil, nil
	case action.KindSubAction:
		var node wireAction
		if err := json.Unmarshal(raw, &node); err != nil {
			return action.Value{}, nil, err
		}
		sub, warnings, err := DecodeAction(node)
		if err != nil {
			return action.Value{}, warnings, err
		}
		return action.SubActionValue(sub), warnings, nil
	case action.KindSubActionList:
		var nodes []wireAction
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return action.Value{}, nil, err
		}
		var warnings []string
		subs := make([]action.Action, 0, len(nodes))
		var errs error
		for i, n := range nodes {
			sub, w, err := DecodeAction(n)
			warnings = append(warnings, w...)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("index %d: %w", i, err))
				continue
			}
			subs = append(subs, sub)
		}
		if errs != nil {
			return action.Value{}, warnings, errs
		}
		return action.SubActionListValue(subs), warnings, nil
	case action.KindValueConditionList:
		var conds []wireValueCondition
		if err := json.Unmarshal(raw, &conds); err != nil {
			return action.Value{}, nil, err
		}
		var warnings []string
		out := make([]action.ValueCondition, 0, len(conds))
		var errs error
		for i, c := range conds {
			if c.MinValue < 0 || c.MinValue > c.MaxValue || c.MaxValue > 127 {
				errs = multierr.Append(errs, fmt.Errorf("condition %d: invalid range [%d,%d]", i, c.MinValue, c.MaxValue))
				continue
			}
			sub, w, err := DecodeAction(c.Action)
			warnings = append(warnings, w...)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("condition %d: %w", i, err))
				continue
			}
			out = append(out, action.ValueCondition{Min: c.MinValue, Max: c.MaxValue, Action: sub, Description: c.Description})
		}
		if errs != nil {
			return action.Value{}, warnings, errs
		}
		return action.ConditionListValue(out), warnings, nil
	default:
		return action.Value{}, nil, fmt.Errorf("unsupported parameter kind")
	}
}
