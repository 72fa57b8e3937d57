package effector

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Real input-injection, process-spawning, and audio-decode internals are
// out of scope (§1 Non-goals) — these loggers satisfy the effector
// contracts so a profile exercises its full action tree end to end, with
// the externally-visible side effect reduced to a structured log line.

// LoggingKeyboard logs every synthesized keystroke instead of injecting it.
type LoggingKeyboard struct {
	log   zerolog.Logger
	mu    sync.Mutex
	state map[int]bool
}

func NewLoggingKeyboard(log zerolog.Logger) *LoggingKeyboard {
	return &LoggingKeyboard{log: log.With().Str("effector", "keyboard").Logger(), state: map[int]bool{}}
}

func (k *LoggingKeyboard) KeyDown(vk int) error {
	k.log.Debug().Int("vk", vk).Msg("KeyDown")
	return nil
}

func (k *LoggingKeyboard) KeyUp(vk int) error {
	k.log.Debug().Int("vk", vk).Msg("KeyUp")
	return nil
}

func (k *LoggingKeyboard) Tap(vk int) error {
	k.log.Debug().Int("vk", vk).Msg("Tap")
	return nil
}

func (k *LoggingKeyboard) Toggle(vk int) (bool, error) {
	k.mu.Lock()
	k.state[vk] = !k.state[vk]
	down := k.state[vk]
	k.mu.Unlock()
	k.log.Debug().Int("vk", vk).Bool("down", down).Msg("Toggle")
	return down, nil
}

// LoggingMouse logs every synthesized click/scroll instead of injecting it.
type LoggingMouse struct{ log zerolog.Logger }

func NewLoggingMouse(log zerolog.Logger) *LoggingMouse {
	return &LoggingMouse{log: log.With().Str("effector", "mouse").Logger()}
}

func (m *LoggingMouse) Click(button MouseButton) error {
	m.log.Debug().Str("button", string(button)).Msg("Click")
	return nil
}

func (m *LoggingMouse) Scroll(direction ScrollDirection, amount int) error {
	m.log.Debug().Str("direction", string(direction)).Int("amount", amount).Msg("Scroll")
	return nil
}

// LoggingGamepad logs every synthesized virtual-controller update.
type LoggingGamepad struct{ log zerolog.Logger }

func NewLoggingGamepad(log zerolog.Logger) *LoggingGamepad {
	return &LoggingGamepad{log: log.With().Str("effector", "gamepad").Logger()}
}

func (g *LoggingGamepad) ButtonDown(padIndex, button int) error {
	g.log.Debug().Int("pad", padIndex).Int("button", button).Msg("ButtonDown")
	return nil
}

func (g *LoggingGamepad) ButtonUp(padIndex, button int) error {
	g.log.Debug().Int("pad", padIndex).Int("button", button).Msg("ButtonUp")
	return nil
}

func (g *LoggingGamepad) SetAxis(padIndex, axis int, signedValue int16) error {
	g.log.Debug().Int("pad", padIndex).Int("axis", axis).Int16("value", signedValue).Msg("SetAxis")
	return nil
}

// LoggingProcess logs the command it would have run instead of spawning it.
type LoggingProcess struct{ log zerolog.Logger }

func NewLoggingProcess(log zerolog.Logger) *LoggingProcess {
	return &LoggingProcess{log: log.With().Str("effector", "process").Logger()}
}

func (p *LoggingProcess) Run(shell Shell, command string, hidden, waitForExit bool) (*int, error) {
	p.log.Debug().Str("shell", string(shell)).Str("command", command).Bool("hidden", hidden).Bool("waitForExit", waitForExit).Msg("Run")
	zero := 0
	return &zero, nil
}

// LoggingAudio preloads by checking the asset exists on disk (failing
// activation the way a real decode failure would) and logs playback
// instead of decoding and sounding the asset.
type LoggingAudio struct{ log zerolog.Logger }

func NewLoggingAudio(log zerolog.Logger) *LoggingAudio {
	return &LoggingAudio{log: log.With().Str("effector", "audio").Logger()}
}

func (a *LoggingAudio) Preload(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("preload %q: %w", path, err)
	}
	a.log.Debug().Str("path", path).Msg("Preload")
	return path, nil
}

func (a *LoggingAudio) Play(assetID string) error {
	a.log.Debug().Str("asset", assetID).Msg("Play")
	return nil
}
