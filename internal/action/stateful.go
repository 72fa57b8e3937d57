package action

const (
	compareEquals = iota
	compareNotEquals
	compareLessThan
	compareLessOrEqual
	compareGreaterThan
	compareGreaterOrEqual
)

func init() {
	Register(Descriptor{
		Tag: "StateSet", DisplayName: "Set State", Schema: []Schema{
			{Name: "StateKey", Kind: KindInteger, Required: true},
			{Name: "Value", Kind: KindInteger, Required: true},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ctx.State.Set(b.Int("StateKey"), b.Int("Value"))
			return nil
		},
	})
	Register(Descriptor{
		Tag: "StateIncrease", DisplayName: "Increase State", Schema: []Schema{
			{Name: "StateKey", Kind: KindInteger, Required: true},
			{Name: "Amount", Kind: KindInteger, Default: IntValue(1)},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ctx.State.Add(b.Int("StateKey"), b.Int("Amount"))
			return nil
		},
	})
	Register(Descriptor{
		Tag: "StateDecrease", DisplayName: "Decrease State", Schema: []Schema{
			{Name: "StateKey", Kind: KindInteger, Required: true},
			{Name: "Amount", Kind: KindInteger, Default: IntValue(1)},
		},
		Execute: func(b *Bag, ctx *ExecContext, _ *int) error {
			ctx.State.Add(b.Int("StateKey"), -b.Int("Amount"))
			return nil
		},
	})
	Register(Descriptor{
		Tag: "StateConditional", DisplayName: "State Conditional", Schema: []Schema{
			{Name: "StateKey", Kind: KindInteger, Required: true},
			{Name: "ComparisonType", Kind: KindEnum, Required: true, Enum: []EnumOption{
				{Name: "Equals", Value: compareEquals},
				{Name: "NotEquals", Value: compareNotEquals},
				{Name: "LessThan", Value: compareLessThan},
				{Name: "LessOrEqual", Value: compareLessOrEqual},
				{Name: "GreaterThan", Value: compareGreaterThan},
				{Name: "GreaterOrEqual", Value: compareGreaterOrEqual},
			}},
			{Name: "Value", Kind: KindInteger, Required: true},
			{Name: "ThenAction", Kind: KindSubAction, Required: true},
			{Name: "ElseAction", Kind: KindSubAction},
		},
		Execute: func(b *Bag, ctx *ExecContext, value *int) error {
			current := ctx.State.Get(b.Int("StateKey"))
			target := b.Int("Value")
			var match bool
			switch b.Int("ComparisonType") {
			case compareEquals:
				match = current == target
			case compareNotEquals:
				match = current != target
			case compareLessThan:
				match = current < target
			case compareLessOrEqual:
				match = current <= target
			case compareGreaterThan:
				match = current > target
			case compareGreaterOrEqual:
				match = current >= target
			}
			if match {
				return b.Sub("ThenAction").Execute(ctx, value)
			}
			if elseAction := b.Sub("ElseAction"); elseAction != nil {
				return elseAction.Execute(ctx, value)
			}
			return nil
		},
	})
}
