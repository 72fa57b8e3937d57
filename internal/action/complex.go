package action

import (
	"fmt"

	"go.uber.org/multierr"
)

const (
	errorHandlingStop     = 0
	errorHandlingContinue = 1
)

func init() {
	registerSequenceAction()
	registerConditionalAction()
	registerAlternatingAction()
	registerRelativeCCAction()
}

func registerSequenceAction() {
	Register(Descriptor{
		Tag: "Sequence", DisplayName: "Sequence", Schema: []Schema{
			{Name: "SubActions", Kind: KindSubActionList, Required: true},
			{Name: "ErrorHandling", Kind: KindEnum, Default: EnumValue(errorHandlingContinue), Enum: []EnumOption{
				{Name: "StopOnError", Value: errorHandlingStop},
				{Name: "ContinueOnError", Value: errorHandlingContinue},
			}},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			children := b.SubList("SubActions")
			stop := b.Int("ErrorHandling") == errorHandlingStop
			var aggregate error
			for idx, child := range children {
				if err := child.Execute(ctx, value); err != nil {
					wrapped := fmt.Errorf("child %d (%s): %w", idx, child.Description(), err)
					if stop {
						return wrapped
					}
					aggregate = multierr.Append(aggregate, wrapped)
				}
			}
			return aggregate
		},
	})
}

func registerConditionalAction() {
	Register(Descriptor{
		Tag: "Conditional", DisplayName: "Conditional", Schema: []Schema{
			{Name: "Conditions", Kind: KindValueConditionList, Required: true},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			if value == nil {
				return nil
			}
			for _, cond := range b.Conditions("Conditions") {
				if *value >= cond.Min && *value <= cond.Max {
					return cond.Action.Execute(ctx, value)
				}
			}
			return nil
		},
	})
}

func registerAlternatingAction() {
	Register(Descriptor{
		Tag: "Alternating", DisplayName: "Alternating", Schema: []Schema{
			{Name: "PrimaryAction", Kind: KindSubAction, Required: true},
			{Name: "SecondaryAction", Kind: KindSubAction, Required: true},
			{Name: "StartWithPrimary", Kind: KindBoolean, Default: BoolValue(true)},
			{Name: "CycleCount", Kind: KindInteger, Default: IntValue(1), HasMin: true, Min: 1},
			{Name: "StateKey", Kind: KindInteger, Required: true},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			counter := ctx.State.Get(b.Int("StateKey"))
			cycle := b.Int("CycleCount")
			bucket := (counter / cycle) % 2
			if !b.Bool("StartWithPrimary") {
				bucket = 1 - bucket
			}
			chosen := b.Sub("PrimaryAction")
			if bucket != 0 {
				chosen = b.Sub("SecondaryAction")
			}
			err := chosen.Execute(ctx, value)
			ctx.State.Add(b.Int("StateKey"), 1)
			return err
		},
	})
}

// decodeRelativeCC converts a raw CC byte into a signed increment per the
// chosen encoding (§4.8). 0 and 64 are no-ops under SignMagnitude; under
// BinaryOffset only 64 is, and 0 decodes to -64.
func decodeRelativeCC(raw int, encoding int) int {
	switch encoding {
	case relativeCCTwosComplement:
		if raw <= 64 {
			return raw
		}
		return raw - 128
	case relativeCCBinaryOffset:
		return raw - 64
	default: // SignMagnitude
		switch {
		case raw == 0 || raw == 64:
			return 0
		case raw >= 1 && raw <= 63:
			return raw
		default: // 65..127
			return -(raw - 64)
		}
	}
}

const (
	relativeCCSignMagnitude  = 0
	relativeCCTwosComplement = 1
	relativeCCBinaryOffset   = 2
)

func registerRelativeCCAction() {
	Register(Descriptor{
		Tag: "RelativeCC", DisplayName: "Relative CC", Schema: []Schema{
			{Name: "PositiveAction", Kind: KindSubAction, Required: true},
			{Name: "NegativeAction", Kind: KindSubAction, Required: true},
			{Name: "Encoding", Kind: KindEnum, Default: EnumValue(relativeCCSignMagnitude), Enum: []EnumOption{
				{Name: "SignMagnitude", Value: relativeCCSignMagnitude},
				{Name: "TwosComplement", Value: relativeCCTwosComplement},
				{Name: "BinaryOffset", Value: relativeCCBinaryOffset},
			}},
			{Name: "UseAcceleration", Kind: KindBoolean, Default: BoolValue(false)},
			{Name: "AccelerationStateKey", Kind: KindInteger, Default: IntValue(0)},
			{Name: "AccelerationThreshold", Kind: KindInteger, Default: IntValue(4), HasMin: true, Min: 1},
			{Name: "AccelerationMultiplier", Kind: KindInteger, Default: IntValue(4), HasMin: true, Min: 1},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			if value == nil {
				return nil
			}
			increment := decodeRelativeCC(*value, b.Int("Encoding"))
			if increment == 0 {
				return nil
			}

			multiplier := 1
			if b.Bool("UseAcceleration") {
				key := b.Int("AccelerationStateKey")
				hits := ctx.State.Add(key, 1)
				if hits >= b.Int("AccelerationThreshold") {
					multiplier = b.Int("AccelerationMultiplier")
					ctx.State.Set(key, 0)
				}
			}

			target := b.Sub("PositiveAction")
			if increment < 0 {
				target = b.Sub("NegativeAction")
			}
			n := abs(increment) * multiplier
			for i := 0; i < n; i++ {
				if err := target.Execute(ctx, value); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
