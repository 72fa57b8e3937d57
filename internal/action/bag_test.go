package action_test

import (
	"testing"

	"github.com/midiflux/midiflux/internal/action"
)

func TestBagSetRejectsKindMismatch(t *testing.T) {
	inst := mustNew(t, "KeyPressRelease")
	if err := inst.SetParameter("VK", action.BoolValue(true)); err == nil {
		t.Fatal("expected kind-mismatch error setting a bool onto an integer parameter")
	}
}

func TestBagSetEnforcesIntegerBounds(t *testing.T) {
	inst := mustNew(t, "KeyPressRelease")
	if err := inst.SetParameter("VK", action.IntValue(-1)); err == nil {
		t.Fatal("expected error for VK below its declared minimum")
	}
	if err := inst.SetParameter("VK", action.IntValue(256)); err == nil {
		t.Fatal("expected error for VK above its declared maximum")
	}
	if err := inst.SetParameter("VK", action.IntValue(65)); err != nil {
		t.Fatalf("in-range VK should be accepted: %v", err)
	}
}

func TestBagSetEnforcesEnumMembership(t *testing.T) {
	inst := mustNew(t, "MouseScroll")
	if err := inst.SetParameter("Direction", action.EnumValue(99)); err == nil {
		t.Fatal("expected error for an undeclared enum alternative")
	}
	if err := inst.SetParameter("Direction", action.EnumValue(0)); err != nil {
		t.Fatalf("declared enum alternative should be accepted: %v", err)
	}
}

func TestBagSetRejectsUnknownParameter(t *testing.T) {
	inst := mustNew(t, "KeyPressRelease")
	if err := inst.SetParameter("NotAField", action.IntValue(1)); err == nil {
		t.Fatal("expected error setting an undeclared parameter")
	}
}

func TestBagCheckRequiredCatchesUnsetInteger(t *testing.T) {
	ctx, _, _, _, _ := newTestContext()
	inst := mustNew(t, "KeyPressRelease")
	if err := inst.Execute(ctx, nil); err == nil {
		t.Fatal("expected CheckRequired to reject an unset required integer parameter")
	}
}

func TestBagOptionalDefaultsApplyWithoutExplicitSet(t *testing.T) {
	ctx, _, _, _, _ := newTestContext()
	inst := mustNew(t, "StateIncrease")
	inst.SetParameter("StateKey", action.IntValue(1))
	// Amount left unset; schema default is 1.
	if err := inst.Execute(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if got := ctx.State.Get(1); got != 1 {
		t.Fatalf("state = %d, want 1 (default Amount)", got)
	}
}
