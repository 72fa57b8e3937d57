package action

import (
	"fmt"
	"time"

	"github.com/midiflux/midiflux/internal/action/effector"
)

func init() {
	registerKeyboardActions()
	registerMouseActions()
	registerGamepadActions()
	registerMidiOutActions()
	registerHostActions()
}

func registerKeyboardActions() {
	vkSchema := []Schema{
		{Name: "VK", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 255},
	}

	Register(Descriptor{
		Tag: "KeyPressRelease", DisplayName: "Key Press & Release", Schema: vkSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.Keyboard.Tap(b.Int("VK"))
		},
	})
	Register(Descriptor{
		Tag: "KeyDown", DisplayName: "Key Down", Schema: vkSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.Keyboard.KeyDown(b.Int("VK"))
		},
	})
	Register(Descriptor{
		Tag: "KeyUp", DisplayName: "Key Up", Schema: vkSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.Keyboard.KeyUp(b.Int("VK"))
		},
	})
	Register(Descriptor{
		Tag: "KeyToggle", DisplayName: "Key Toggle", Schema: []Schema{
			{Name: "VK", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 255},
			{Name: "StateKey", Kind: KindInteger, Required: true},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			down, err := ctx.Effectors.Keyboard.Toggle(b.Int("VK"))
			if err != nil {
				return err
			}
			v := 0
			if down {
				v = 1
			}
			ctx.State.Set(b.Int("StateKey"), v)
			return nil
		},
	})
	Register(Descriptor{
		Tag: "KeyModified", DisplayName: "Modified Key Press", Schema: []Schema{
			{Name: "Modifiers", Kind: KindByteArray, Required: true},
			{Name: "VK", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 255},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			mods := b.Bytes("Modifiers")
			for _, m := range mods {
				if err := ctx.Effectors.Keyboard.KeyDown(int(m)); err != nil {
					return err
				}
			}
			if err := ctx.Effectors.Keyboard.Tap(b.Int("VK")); err != nil {
				return err
			}
			for i := len(mods) - 1; i >= 0; i-- {
				if err := ctx.Effectors.Keyboard.KeyUp(int(mods[i])); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func registerMouseActions() {
	Register(Descriptor{
		Tag: "MouseClick", DisplayName: "Mouse Click", Schema: []Schema{
			{Name: "Button", Kind: KindEnum, Required: true, Enum: []EnumOption{
				{Name: "Left", Value: 0}, {Name: "Right", Value: 1}, {Name: "Middle", Value: 2},
			}},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			buttons := []effector.MouseButton{effector.MouseLeft, effector.MouseRight, effector.MouseMiddle}
			return ctx.Effectors.Mouse.Click(buttons[b.Int("Button")])
		},
	})
	Register(Descriptor{
		Tag: "MouseScroll", DisplayName: "Mouse Scroll", Schema: []Schema{
			{Name: "Direction", Kind: KindEnum, Required: true, Enum: []EnumOption{
				{Name: "Up", Value: 0}, {Name: "Down", Value: 1}, {Name: "Left", Value: 2}, {Name: "Right", Value: 3},
			}},
			{Name: "Amount", Kind: KindInteger, Default: IntValue(1), HasMin: true, Min: 0},
			{Name: "UseEventValue", Kind: KindBoolean, Default: BoolValue(false)},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			directions := []effector.ScrollDirection{effector.ScrollUp, effector.ScrollDown, effector.ScrollLeft, effector.ScrollRight}
			amount := b.Int("Amount")
			if b.Bool("UseEventValue") && value != nil {
				amount = *value
			}
			return ctx.Effectors.Mouse.Scroll(directions[b.Int("Direction")], amount)
		},
	})
}

func registerGamepadActions() {
	btnSchema := []Schema{
		{Name: "PadIndex", Kind: KindInteger, Default: IntValue(0), HasMin: true, Min: 0},
		{Name: "Button", Kind: KindInteger, Required: true, HasMin: true, Min: 0},
	}
	Register(Descriptor{
		Tag: "GameControllerButton", DisplayName: "Controller Button Tap", Schema: btnSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			pad, btn := b.Int("PadIndex"), b.Int("Button")
			if err := ctx.Effectors.Gamepad.ButtonDown(pad, btn); err != nil {
				return err
			}
			return ctx.Effectors.Gamepad.ButtonUp(pad, btn)
		},
	})
	Register(Descriptor{
		Tag: "GameControllerButtonDown", DisplayName: "Controller Button Down", Schema: btnSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.Gamepad.ButtonDown(b.Int("PadIndex"), b.Int("Button"))
		},
	})
	Register(Descriptor{
		Tag: "GameControllerButtonUp", DisplayName: "Controller Button Up", Schema: btnSchema,
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.Gamepad.ButtonUp(b.Int("PadIndex"), b.Int("Button"))
		},
	})
	Register(Descriptor{
		Tag: "GameControllerAxis", DisplayName: "Controller Axis", Schema: []Schema{
			{Name: "PadIndex", Kind: KindInteger, Default: IntValue(0), HasMin: true, Min: 0},
			{Name: "Axis", Kind: KindInteger, Required: true, HasMin: true, Min: 0},
			{Name: "MinValue", Kind: KindInteger, Default: IntValue(-32768)},
			{Name: "MaxValue", Kind: KindInteger, Default: IntValue(32767)},
			{Name: "Invert", Kind: KindBoolean, Default: BoolValue(false)},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			if value == nil {
				return nil
			}
			v := *value
			if v < 0 {
				v = 0
			}
			if v > 127 {
				v = 127
			}
			if b.Bool("Invert") {
				v = 127 - v
			}
			lo, hi := b.Int("MinValue"), b.Int("MaxValue")
			signed := lo + (hi-lo)*v/127
			return ctx.Effectors.Gamepad.SetAxis(b.Int("PadIndex"), b.Int("Axis"), int16(signed))
		},
	})
}

func registerMidiOutActions() {
	Register(Descriptor{
		Tag: "MidiNoteOn", DisplayName: "MIDI Note On", Schema: []Schema{
			{Name: "Device", Kind: KindString, Default: StringValue("*")},
			{Name: "Channel", Kind: KindInteger, Required: true, HasMin: true, Min: 1, HasMax: true, Max: 16},
			{Name: "Note", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 127},
			{Name: "Velocity", Kind: KindInteger, Default: IntValue(127), HasMin: true, Min: 0, HasMax: true, Max: 127},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ch := byte(b.Int("Channel") - 1)
			status := byte(0x90) | (ch & 0x0F)
			return ctx.Effectors.MidiOut.Send(effector.MidiOutputCommand{
				DeviceID: b.Str("Device"),
				Bytes:    []byte{status, byte(b.Int("Note")), byte(b.Int("Velocity"))},
			})
		},
	})
	Register(Descriptor{
		Tag: "MidiNoteOff", DisplayName: "MIDI Note Off", Schema: []Schema{
			{Name: "Device", Kind: KindString, Default: StringValue("*")},
			{Name: "Channel", Kind: KindInteger, Required: true, HasMin: true, Min: 1, HasMax: true, Max: 16},
			{Name: "Note", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 127},
			{Name: "Velocity", Kind: KindInteger, Default: IntValue(0), HasMin: true, Min: 0, HasMax: true, Max: 127},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ch := byte(b.Int("Channel") - 1)
			status := byte(0x80) | (ch & 0x0F)
			return ctx.Effectors.MidiOut.Send(effector.MidiOutputCommand{
				DeviceID: b.Str("Device"),
				Bytes:    []byte{status, byte(b.Int("Note")), byte(b.Int("Velocity"))},
			})
		},
	})
	Register(Descriptor{
		Tag: "MidiControlChange", DisplayName: "MIDI Control Change", Schema: []Schema{
			{Name: "Device", Kind: KindString, Default: StringValue("*")},
			{Name: "Channel", Kind: KindInteger, Required: true, HasMin: true, Min: 1, HasMax: true, Max: 16},
			{Name: "Controller", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 127},
			{Name: "Value", Kind: KindInteger, Required: true, HasMin: true, Min: 0, HasMax: true, Max: 127},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ch := byte(b.Int("Channel") - 1)
			status := byte(0xB0) | (ch & 0x0F)
			return ctx.Effectors.MidiOut.Send(effector.MidiOutputCommand{
				DeviceID: b.Str("Device"),
				Bytes:    []byte{status, byte(b.Int("Controller")), byte(b.Int("Value"))},
			})
		},
	})
	Register(Descriptor{
		Tag: "MidiSysEx", DisplayName: "MIDI SysEx", Schema: []Schema{
			{Name: "Device", Kind: KindString, Default: StringValue("*")},
			{Name: "Bytes", Kind: KindByteArray, Required: true},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			return ctx.Effectors.MidiOut.Send(effector.MidiOutputCommand{
				DeviceID: b.Str("Device"),
				Bytes:    b.Bytes("Bytes"),
			})
		},
	})
}

func registerHostActions() {
	Register(Descriptor{
		Tag: "CommandExecution", DisplayName: "Run Command", Schema: []Schema{
			{Name: "Shell", Kind: KindEnum, Default: EnumValue(0), Enum: []EnumOption{
				{Name: "None", Value: 0}, {Name: "PowerShell", Value: 1}, {Name: "Cmd", Value: 2},
			}},
			{Name: "Command", Kind: KindString, Required: true},
			{Name: "RunHidden", Kind: KindBoolean, Default: BoolValue(true)},
			{Name: "WaitForExit", Kind: KindBoolean, Default: BoolValue(false)},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			shells := []effector.Shell{effector.ShellNone, effector.ShellPowerShell, effector.ShellCmd}
			_, err := ctx.Effectors.Process.Run(shells[b.Int("Shell")], b.Str("Command"), b.Bool("RunHidden"), b.Bool("WaitForExit"))
			return err
		},
	})
	Register(Descriptor{
		Tag: "Delay", DisplayName: "Delay", Schema: []Schema{
			{Name: "Milliseconds", Kind: KindInteger, Required: true, HasMin: true, Min: 0},
		},
		Execute: func(b *Bag, _ *ExecContext, _ *int) error {
			time.Sleep(time.Duration(b.Int("Milliseconds")) * time.Millisecond)
			return nil
		},
	})
	Register(Descriptor{
		Tag: "PlaySound", DisplayName: "Play Sound", Schema: []Schema{
			{Name: "Path", Kind: KindString, Required: true},
			{Name: "AssetID", Kind: KindString, Default: StringValue("")},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			assetID := b.Str("AssetID")
			if assetID == "" {
				return fmt.Errorf("asset %q was not preloaded at profile activation", b.Str("Path"))
			}
			return ctx.Effectors.Audio.Play(assetID)
		},
	})
}
