package action

import "fmt"

// EnumOption names one alternative of an Enum parameter and its encoded
// integer value (§4.6 "named alternatives with their integer ... encodings").
type EnumOption struct {
	Name  string
	Value int
}

// Schema declares one parameter: name, type, required-ness, default, and
// validation bounds. The Action Type Registry attaches a []Schema to
// every kind; the Parameter System validates every SetParameter call
// against it.
type Schema struct {
	Name     string
	Kind     Kind
	Required bool
	Default  Value

	// Integer bounds, honored when Kind == KindInteger.
	Min, Max, Stride int
	HasMin, HasMax   bool

	// Enum alternatives, honored when Kind == KindEnum.
	Enum []EnumOption
}

func (s Schema) validate(v Value) error {
	if v.Kind != s.Kind {
		return fmt.Errorf("parameter %q: expected kind %d, got %d", s.Name, s.Kind, v.Kind)
	}
	switch s.Kind {
	case KindInteger:
		if s.HasMin && v.Int < s.Min {
			return fmt.Errorf("parameter %q: value %d below minimum %d", s.Name, v.Int, s.Min)
		}
		if s.HasMax && v.Int > s.Max {
			return fmt.Errorf("parameter %q: value %d above maximum %d", s.Name, v.Int, s.Max)
		}
		if s.Stride > 1 && v.Int%s.Stride != 0 {
			return fmt.Errorf("parameter %q: value %d is not a multiple of stride %d", s.Name, v.Int, s.Stride)
		}
	case KindEnum:
		for _, opt := range s.Enum {
			if opt.Value == v.Int {
				return nil
			}
		}
		return fmt.Errorf("parameter %q: %d is not one of the declared enum alternatives", s.Name, v.Int)
	}
	return nil
}

// EnumByName resolves a declared alternative's name to its encoded value.
func (s Schema) EnumByName(name string) (int, bool) {
	for _, opt := range s.Enum {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return 0, false
}

// EnumName resolves an encoded value back to its declared name.
func (s Schema) EnumName(value int) (string, bool) {
	for _, opt := range s.Enum {
		if opt.Value == value {
			return opt.Name, true
		}
	}
	return "", false
}
