// Package dispatch implements the MIDI Action Engine (C11): it turns one
// normalized event into zero or more action executions, using the active
// profile's registry for lookup and the profile manager's state store and
// effectors for execution.
package dispatch

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/midiflux/midiflux/internal/action"
	"github.com/midiflux/midiflux/internal/event"
	"github.com/midiflux/midiflux/internal/metrics"
	"github.com/midiflux/midiflux/internal/profile"
	"github.com/midiflux/midiflux/internal/registry"
	"github.com/midiflux/midiflux/internal/sysex"
)

// Tap receives a copy of every event and the mappings it resolved to,
// for the read-only diagnostics surface (C14). It must not block.
type Tap func(e event.Event, matched []*registry.Mapping)

// Engine turns events into action executions against whatever profile is
// current when the event arrives (§5 "readers capture the handle once at
// the start of dispatch").
type Engine struct {
	manager   *profile.Manager
	threshold time.Duration
	log       zerolog.Logger
	taps      []Tap
}

// New builds an Engine bound to manager, with latencyThreshold used only
// for the SlowDispatches metric and warning log (§5 default 5ms).
func New(manager *profile.Manager, latencyThreshold time.Duration) *Engine {
	if latencyThreshold <= 0 {
		latencyThreshold = 5 * time.Millisecond
	}
	return &Engine{
		manager:   manager,
		threshold: latencyThreshold,
		log:       log.With().Str("module", "Dispatch").Logger(),
	}
}

// AddTap registers a diagnostics observer. Not safe to call once Handle
// is in use concurrently from another goroutine.
func (eng *Engine) AddTap(t Tap) {
	eng.taps = append(eng.taps, t)
}

// Handle is the hardware adapter's callback: resolve e against the
// current profile's registry and execute every matched mapping's action
// in order, isolating failures per-mapping (§5 "one failing action in a
// list does not prevent the rest from running").
//
// Handle does not serialize events per device: calls for events from the
// same device may run concurrently, and no per-device executor sits in
// front of it.
func (eng *Engine) Handle(e event.Event) {
	start := time.Now()
	metrics.EventsReceived.WithLabelValues(e.DeviceID, string(e.Kind)).Inc()

	p := eng.manager.Current()
	if p == nil || p.Registry == nil {
		return
	}

	types, number, ok := inputTypesOf(e)
	if !ok {
		return
	}

	var matched []*registry.Mapping
	for _, typ := range types {
		matched = append(matched, p.Registry.Lookup(e, typ, number)...)
	}
	if e.Kind == event.KindSysEx {
		matched = registry.FilterSysEx(matched, e.SysExBytes, sysex.Matches)
	}

	for _, t := range eng.taps {
		t(e, matched)
	}

	if len(matched) == 0 {
		return
	}

	value, hasValue := e.NumericValue()
	ctx := &action.ExecContext{Effectors: eng.manager.Effectors(), State: eng.manager.State()}

	excludeFromLatency := false
	for _, m := range matched {
		eng.execute(ctx, m, e, value, hasValue)
		if isLatencyExempt(m.Action) {
			excludeFromLatency = true
		}
	}

	if excludeFromLatency {
		return
	}
	elapsed := time.Since(start)
	metrics.DispatchLatency.WithLabelValues(e.DeviceID).Observe(elapsed.Seconds())
	if elapsed > eng.threshold {
		metrics.SlowDispatches.WithLabelValues(e.DeviceID).Inc()
		eng.log.Warn().Dur("elapsed", elapsed).Dur("threshold", eng.threshold).Str("device", e.DeviceID).Msg("Dispatch exceeded latency threshold")
	}
}

func (eng *Engine) execute(ctx *action.ExecContext, m *registry.Mapping, e event.Event, value int, hasValue bool) {
	var v *int
	if hasValue {
		v = &value
	}
	err := m.Action.Execute(ctx, v)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		eng.log.Error().Err(err).Str("mapping", m.ID).Str("device", e.DeviceID).Msg("Action execution failed")
	}
	metrics.ActionsExecuted.WithLabelValues(m.Action.Kind(), outcome).Inc()
}

// isLatencyExempt reports whether a's tree contains a Delay or a
// wait-for-exit CommandExecution, either of which is expected to run
// longer than the dispatch threshold by design (§5).
func isLatencyExempt(a action.Action) bool {
	exempt := false
	_ = action.Walk(a, func(child action.Action) error {
		switch child.Kind() {
		case "Delay":
			exempt = true
		case "CommandExecution":
			if v, present := child.GetParameter("WaitForExit"); present && v.Kind == action.KindBoolean && v.Bool {
				exempt = true
			}
		}
		return nil
	})
	return exempt
}

// inputTypesOf maps a normalized event onto the registry bucket types it
// can satisfy. A ControlChange event can satisfy either an Absolute or a
// Relative mapping on the same controller number (§4.8): that choice is
// the mapping's, not the event's, so both buckets are queried.
func inputTypesOf(e event.Event) ([]registry.InputType, int, bool) {
	switch e.Kind {
	case event.KindNoteOn:
		return []registry.InputType{registry.InputNoteOn}, int(e.Note), true
	case event.KindNoteOff:
		return []registry.InputType{registry.InputNoteOff}, int(e.Note), true
	case event.KindControlChange:
		return []registry.InputType{registry.InputControlChangeAbs, registry.InputControlChangeRel}, int(e.Controller), true
	case event.KindProgramChange:
		return []registry.InputType{registry.InputProgramChange}, int(e.Program), true
	case event.KindPitchBend:
		return []registry.InputType{registry.InputPitchBend}, 0, true
	case event.KindChannelPressure:
		return []registry.InputType{registry.InputChannelPressure}, 0, true
	case event.KindPolyKeyPressure:
		return []registry.InputType{registry.InputPolyKeyPressure}, int(e.Note), true
	case event.KindSysEx:
		return []registry.InputType{registry.InputSysEx}, 0, true
	default:
		return nil, 0, false
	}
}
