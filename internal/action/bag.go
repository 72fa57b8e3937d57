package action

import "fmt"

// Bag is the strongly-typed parameter bag (§4.6). Every concrete action
// embeds one; the Action Type Registry supplies the schema each bag is
// validated against.
type Bag struct {
	schema []Schema
	values map[string]Value
	set    map[string]bool
}

// NewBag builds a bag pre-populated with each schema entry's default,
// mirroring the teacher's `ensureDefaults` pattern of never leaving a
// required field at its Go zero value.
func NewBag(schema []Schema) *Bag {
	b := &Bag{schema: schema, values: make(map[string]Value, len(schema)), set: make(map[string]bool, len(schema))}
	for _, s := range schema {
		b.values[s.Name] = s.Default
	}
	return b
}

func (b *Bag) schemaFor(name string) (Schema, bool) {
	for _, s := range b.schema {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}

// Get returns the raw typed value for name.
func (b *Bag) Get(name string) (Value, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Set validates v against the declared schema for name and, if valid,
// stores it.
func (b *Bag) Set(name string, v Value) error {
	s, ok := b.schemaFor(name)
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	if err := s.validate(v); err != nil {
		return err
	}
	b.values[name] = v
	b.set[name] = true
	return nil
}

// CheckRequired returns an error naming the first required parameter that
// was never explicitly given a value via Set.
func (b *Bag) CheckRequired() error {
	for _, s := range b.schema {
		if !s.Required {
			continue
		}
		if !b.set[s.Name] {
			return fmt.Errorf("missing required parameter %q", s.Name)
		}
	}
	return nil
}

// Schema exposes the declared schema, e.g. for the JSON codec or a future
// editor UI.
func (b *Bag) Schema() []Schema { return append([]Schema(nil), b.schema...) }

// Typed accessors used by Execute implementations. They assume
// construction already validated the bag (CheckRequired, per-Set
// validation), so they never error: a parameter never Set yields its
// schema default, and an undeclared name yields the Go zero value.

func (b *Bag) Int(name string) int {
	v := b.values[name]
	return v.Int
}

func (b *Bag) Bool(name string) bool {
	v := b.values[name]
	return v.Bool
}

func (b *Bag) Str(name string) string {
	v := b.values[name]
	return v.Str
}

func (b *Bag) Bytes(name string) []byte {
	v := b.values[name]
	return v.Bytes
}

func (b *Bag) Sub(name string) Action {
	v := b.values[name]
	return v.Sub
}

func (b *Bag) SubList(name string) []Action {
	v := b.values[name]
	return v.SubList
}

func (b *Bag) Conditions(name string) []ValueCondition {
	v := b.values[name]
	return v.Conditions
}
