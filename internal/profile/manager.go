package profile

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/kelindar/event"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/midiflux/midiflux/internal/action"
	"github.com/midiflux/midiflux/internal/action/effector"
	"github.com/midiflux/midiflux/internal/state"
)

// Topic identifies an event published by the Manager over the in-process
// bus (replaces the teacher's hand-rolled Subscribe/Notify map with a
// typed event-bus library).
type Topic uint32

const (
	TopicProfileActivated Topic = iota
	TopicProfileLoadWarning
	TopicMappingRejected
)

// ActivatedEvent is published after a new profile is live.
type ActivatedEvent struct {
	ProfileName string
	MappingCount int
}

func (ActivatedEvent) Type() uint32 { return uint32(TopicProfileActivated) }

// WarningEvent is published for every non-fatal load warning.
type WarningEvent struct {
	Message string
}

func (WarningEvent) Type() uint32 { return uint32(TopicProfileLoadWarning) }

// RejectedEvent is published for every mapping the loader rejected.
type RejectedEvent struct {
	DeviceName string
	MappingID  string
	Reason     string
}

func (RejectedEvent) Type() uint32 { return uint32(TopicMappingRejected) }

// Manager owns the current Profile exclusively (C12): it publishes a new
// Profile atomically and drops the old one once in-flight dispatches
// release it, owns the profile-scoped State Store, and hands out MIDI-out
// device handles by capability reference.
type Manager struct {
	current   atomic.Pointer[Profile]
	state     *state.Store
	effectors *effector.Set

	log zerolog.Logger

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	watchedPath string
}

// NewManager creates a Manager with an empty state store, sharing
// effectors with every action the active profile's registry reaches.
func NewManager(effectors *effector.Set) *Manager {
	return &Manager{
		state:     state.New(),
		effectors: effectors,
		log:       log.With().Str("module", "ProfileManager").Logger(),
	}
}

// Current returns the active profile, or nil before the first activation.
// Callers should capture this once per dispatch (§5 "Readers capture the
// handle once at the start of dispatch").
func (m *Manager) Current() *Profile {
	return m.current.Load()
}

// State returns the profile-scoped state store.
func (m *Manager) State() *state.Store {
	return m.state
}

// Effectors returns the shared effector set handed to every action.
func (m *Manager) Effectors() *effector.Set {
	return m.effectors
}

// Activate publishes p as the current profile: the State Store is cleared
// and reinitialized from p.InitialStates, then the registry is swapped in
// a single atomic store. In-flight dispatches holding the previous
// *Profile continue to completion on it (§5).
func (m *Manager) Activate(p *Profile) error {
	if err := m.preloadAssets(p); err != nil {
		return fmt.Errorf("profile activation: %w", err)
	}
	m.state.Initialize(p.InitialStates)
	m.current.Store(p)
	mappingCount := 0
	for _, d := range p.Devices {
		mappingCount += len(d.Mappings)
	}
	event.Publish(ActivatedEvent{ProfileName: p.Name, MappingCount: mappingCount})
	m.log.Info().Str("profile", p.Name).Int("mappings", mappingCount).Msg("Activated profile")
	return nil
}

// preloadAssets preloads every PlaySound action's asset at activation
// time, per §9's open-question decision: never defer decode to first
// play. Activation fails if any referenced asset cannot be preloaded.
func (m *Manager) preloadAssets(p *Profile) error {
	if m.effectors == nil || m.effectors.Audio == nil {
		return nil
	}
	var outer error
	for _, d := range p.Devices {
		for i := range d.Mappings {
			mapping := &d.Mappings[i]
			walkErr := action.Walk(mapping.Action, func(a action.Action) error {
				if a.Kind() != "PlaySound" {
					return nil
				}
				inst, ok := a.(*action.Instance)
				if !ok {
					return nil
				}
				path := inst.Bag().Str("Path")
				assetID, err := m.effectors.Audio.Preload(path)
				if err != nil {
					return fmt.Errorf("mapping %q: preload %q: %w", mapping.ID, path, err)
				}
				return inst.SetParameter("AssetID", action.StringValue(assetID))
			})
			if walkErr != nil {
				outer = walkErr
			}
		}
	}
	return outer
}

// LoadFile reads, decodes, and activates the profile at path. On success
// it returns the LoadResult so the caller (typically the CLI / settings
// loader) can surface warnings and rejections to the user (§7 "invalid
// profiles load partially with a warning dialog").
func (m *Manager) LoadFile(path string) (LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	result, err := Decode(data)
	if err != nil {
		return result, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	for _, w := range result.Warnings {
		event.Publish(WarningEvent{Message: w})
		m.log.Warn().Str("path", path).Msg(w)
	}
	for _, r := range result.Rejected {
		reason := ""
		if r.Err != nil {
			reason = r.Err.Error()
		}
		event.Publish(RejectedEvent{DeviceName: r.DeviceName, MappingID: r.MappingID, Reason: reason})
		m.log.Warn().Str("device", r.DeviceName).Str("mapping", r.MappingID).Str("reason", reason).Msg("Rejected mapping")
	}
	if err := m.Activate(result.Profile); err != nil {
		return result, err
	}
	return result, nil
}

// WatchFile starts watching path for changes and reactivates the profile
// on every write, reusing the same atomic-swap path as explicit
// activation (generalizes the teacher's dynamic `UpdateRules` on
// `source.assigned`/`source.unassigned` into a filesystem-driven trigger).
func (m *Manager) WatchFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		m.watcher.Close()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("profile watch: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return fmt.Errorf("profile watch %s: %w", path, err)
	}
	m.watcher = w
	m.watchedPath = path

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				m.log.Info().Str("path", ev.Name).Msg("Profile file changed, reloading")
				if _, err := m.LoadFile(path); err != nil {
					m.log.Error().Err(err).Str("path", path).Msg("Failed to reload profile")
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.log.Error().Err(err).Msg("Profile watcher error")
			}
		}
	}()
	return nil
}

// Close stops the file watcher, if any. It does not interrupt in-flight
// dispatches (§5 "A hard shutdown signal aborts the process").
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
