package profile

import (
	"encoding/json"
	"fmt"

	"github.com/midiflux/midiflux/internal/action"
	"github.com/midiflux/midiflux/internal/registry"
)

// Encode is the exact inverse of Decode: decode(encode(p)) must
// structurally round-trip a profile's action tree, parameters, and
// mapping order (§8 "Round-trip").
func Encode(p *Profile) ([]byte, error) {
	doc := wireProfile{
		ProfileName:   p.Name,
		Description:   p.Description,
		InitialStates: make(map[string]int, len(p.InitialStates)),
	}
	for k, v := range p.InitialStates {
		doc.InitialStates[fmt.Sprintf("%d", k)] = v
	}
	for _, d := range p.Devices {
		wd := wireDeviceBlock{DeviceName: d.DeviceName, Description: d.Description}
		for _, m := range d.Mappings {
			wm, err := encodeMapping(m)
			if err != nil {
				return nil, err
			}
			wd.Mappings = append(wd.Mappings, wm)
		}
		doc.MidiDevices = append(doc.MidiDevices, wd)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeMapping(m registry.Mapping) (wireMapping, error) {
	wm := wireMapping{
		ID:          m.ID,
		Description: m.Description,
		InputType:   string(m.Input.Type),
	}
	enabled := m.Enabled
	wm.IsEnabled = &enabled
	if !m.Input.ChannelIsAny {
		ch := m.Input.Channel
		wm.Channel = &ch
	}
	switch m.Input.Type {
	case registry.InputNoteOn, registry.InputNoteOff, registry.InputPolyKeyPressure, registry.InputProgramChange:
		n := m.Input.InputNumber
		wm.Note = &n
	case registry.InputControlChangeAbs, registry.InputControlChangeRel:
		n := m.Input.InputNumber
		wm.ControlNumber = &n
	}
	if len(m.Input.SysExPattern) > 0 {
		ints := make([]int, len(m.Input.SysExPattern))
		for i, b := range m.Input.SysExPattern {
			ints[i] = int(b)
		}
		wm.SysExPattern = ints
	}
	wa, err := EncodeAction(m.Action)
	if err != nil {
		return wireMapping{}, err
	}
	wm.Action = wa
	return wm, nil
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(a action.Action) (wireAction, error) {
	inst, ok := a.(*action.Instance)
	if !ok {
		return wireAction{}, fmt.Errorf("encode: action %q is not a registry instance", a.Kind())
	}
	out := wireAction{
		Type:        inst.Kind(),
		Description: inst.Description(),
		Parameters:  make(map[string]json.RawMessage),
	}
	for _, schema := range inst.Bag().Schema() {
		v, _ := inst.Bag().Get(schema.Name)
		if schema.Kind == action.KindSubAction && v.Sub == nil {
			continue // an unset optional sub-action is omitted, as on input
		}
		raw, err := encodeParamValue(schema, v)
		if err != nil {
			return wireAction{}, fmt.Errorf("action %q parameter %q: %w", inst.Kind(), schema.Name, err)
		}
		out.Parameters[schema.Name] = raw
	}
	return out, nil
}

func encodeParamValue(schema action.Schema, v action.Value) (json.RawMessage, error) {
	switch schema.Kind {
	case action.KindInteger:
		return json.Marshal(v.Int)
	case action.KindEnum:
		if name, ok := schema.EnumName(v.Int); ok {
			return json.Marshal(name)
		}
		return json.Marshal(v.Int)
	case action.KindBoolean:
		return json.Marshal(v.Bool)
	case action.KindString:
		return json.Marshal(v.Str)
	case action.KindByteArray:
		ints := make([]int, len(v.Bytes))
		for i, b := range v.Bytes {
			ints[i] = int(b)
		}
		return json.Marshal(ints)
	case action.KindSubAction:
		if v.Sub == nil {
			return json.Marshal(nil)
		}
		node, err := EncodeAction(v.Sub)
		if err != nil {
			return nil, err
		}
		return json.Marshal(node)
	case action.KindSubActionList:
		nodes := make([]wireAction, 0, len(v.SubList))
		for _, sub := range v.SubList {
			node, err := EncodeAction(sub)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		return json.Marshal(nodes)
	case action.KindValueConditionList:
		conds := make([]wireValueCondition, 0, len(v.Conditions))
		for _, c := range v.Conditions {
			node, err := EncodeAction(c.Action)
			if err != nil {
				return nil, err
			}
			conds = append(conds, wireValueCondition{MinValue: c.Min, MaxValue: c.Max, Action: node, Description: c.Description})
		}
		return json.Marshal(conds)
	default:
		return nil, fmt.Errorf("unsupported parameter kind")
	}
}
