// Package effector declares the external collaborator interfaces (§6) that
// simple actions drive: keyboard, mouse, virtual gamepad, MIDI output,
// audio playback, and process launching. Concrete implementations live
// outside the core dispatch engine; this package only states the
// contracts the engine depends on.
package effector

// Keyboard synthesizes keystrokes. VK codes are caller-defined (typically
// a platform virtual-key table); the dispatch engine treats them opaquely.
type Keyboard interface {
	KeyDown(vk int) error
	KeyUp(vk int) error
	Tap(vk int) error
	Toggle(vk int) (down bool, err error)
}

// MouseButton identifies a mouse button for Click.
type MouseButton string

const (
	MouseLeft   MouseButton = "Left"
	MouseRight  MouseButton = "Right"
	MouseMiddle MouseButton = "Middle"
)

// ScrollDirection identifies the axis/sign of a Scroll call.
type ScrollDirection string

const (
	ScrollUp    ScrollDirection = "Up"
	ScrollDown  ScrollDirection = "Down"
	ScrollLeft  ScrollDirection = "Left"
	ScrollRight ScrollDirection = "Right"
)

// Mouse synthesizes mouse input.
type Mouse interface {
	Click(button MouseButton) error
	Scroll(direction ScrollDirection, amount int) error
}

// Gamepad drives a virtual game controller.
type Gamepad interface {
	ButtonDown(padIndex int, button int) error
	ButtonUp(padIndex int, button int) error
	SetAxis(padIndex int, axis int, signedValue int16) error
}

// MidiOutputCommand is an opaque outbound MIDI message, constructed by the
// calling action and handed to the device named by that action's Device
// parameter (or "*" for the first active output).
type MidiOutputCommand struct {
	DeviceID string
	Bytes    []byte
}

// MidiOutput sends outbound MIDI messages via the hardware adapter.
type MidiOutput interface {
	Send(cmd MidiOutputCommand) error
}

// Audio preloads and plays short sound assets. Preload must happen at
// profile-load time (§9 open question decision) — Play during steady
// state never decodes.
type Audio interface {
	Preload(path string) (assetID string, err error)
	Play(assetID string) error
}

// Shell identifies which interpreter CommandExecution should use.
type Shell string

const (
	ShellNone       Shell = "None"
	ShellPowerShell Shell = "PowerShell"
	ShellCmd        Shell = "Cmd"
)

// Process launches external commands.
type Process interface {
	Run(shell Shell, command string, hidden bool, waitForExit bool) (exitCode *int, err error)
}

// Set bundles every effector an action tree might reach for. Actions hold
// a *Set by capability reference, never owning it.
type Set struct {
	Keyboard Keyboard
	Mouse    Mouse
	Gamepad  Gamepad
	MidiOut  MidiOutput
	Audio    Audio
	Process  Process
}
