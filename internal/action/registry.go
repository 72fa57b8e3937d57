package action

import (
	"fmt"
	"sort"
	"sync"
)

// ExecuteFunc implements one action kind's behavior given its own bag,
// the shared execution context, and the canonical event value.
type ExecuteFunc func(bag *Bag, ctx *ExecContext, value *int) error

// Descriptor is one entry of the Action Type Registry (C5): a stable tag
// (used as the JSON $type), a human display name, a parameter schema, and
// the construction/execution hooks.
type Descriptor struct {
	Tag         string
	DisplayName string
	Schema      []Schema
	Execute     ExecuteFunc
}

var (
	registryMu   sync.RWMutex
	descriptors  = map[string]Descriptor{}
)

// Register adds a descriptor to the process-wide registry. Registration
// is append-only and happens at package init time (§4.5); there is no
// runtime unregistration.
func Register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := descriptors[d.Tag]; exists {
		panic(fmt.Sprintf("action: duplicate registration for %q", d.Tag))
	}
	descriptors[d.Tag] = d
}

// Lookup returns the descriptor for tag. Reads take only the registry's
// read lock; the write lock is taken only by Register, which runs during
// init, so readers never contend during steady-state dispatch.
func Lookup(tag string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := descriptors[tag]
	return d, ok
}

// All returns every registered descriptor, sorted by tag for stable
// iteration (e.g. for a future editor UI).
func All() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// New constructs a default (zero-configured) Instance of the given kind.
func New(tag string) (*Instance, error) {
	d, ok := Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("unknown action kind %q", tag)
	}
	return &Instance{tag: d.Tag, bag: NewBag(d.Schema), exec: d.Execute}, nil
}

// Instance is the single concrete type behind every action kind. Behavior
// is supplied by the registry's Descriptor, not by per-kind Go types —
// this is the "uniform execute contract" of §9 taken literally: one
// struct, one interface, differentiated only by registry data.
type Instance struct {
	tag         string
	description string
	bag         *Bag
	exec        ExecuteFunc
}

func (i *Instance) Kind() string          { return i.tag }
func (i *Instance) Description() string   { return i.description }
func (i *Instance) SetDescription(d string) { i.description = d }

func (i *Instance) Execute(ctx *ExecContext, value *int) error {
	if err := i.bag.CheckRequired(); err != nil {
		return fmt.Errorf("action %s (%s): %w", i.tag, i.description, err)
	}
	if err := i.exec(i.bag, ctx, value); err != nil {
		return fmt.Errorf("action %s (%s): %w", i.tag, i.description, err)
	}
	return nil
}

func (i *Instance) GetParameter(name string) (Value, bool) { return i.bag.Get(name) }
func (i *Instance) SetParameter(name string, v Value) error { return i.bag.Set(name, v) }

// Bag exposes the instance's parameter bag directly, for the codec.
func (i *Instance) Bag() *Bag { return i.bag }
