// Package action implements the Action Type Registry (C5), the Parameter
// System (C6), and every concrete action (C7 simple, C8 complex, C9
// stateful) behind one execute contract.
package action

import (
	"github.com/midiflux/midiflux/internal/action/effector"
	"github.com/midiflux/midiflux/internal/state"
)

// Kind identifies a parameter's type in the closed set from §4.6.
type Kind int

const (
	KindInteger Kind = iota
	KindEnum
	KindBoolean
	KindString
	KindByteArray
	KindSubAction
	KindSubActionList
	KindValueConditionList
)

// Action is the uniform interface every action kind implements (§4.7, §9).
type Action interface {
	// Kind returns the registry tag, also used as the JSON $type.
	Kind() string
	// Description returns the user-facing description of this action.
	Description() string
	SetDescription(string)
	// Execute runs the action. value is the canonical numeric event
	// payload (§4.7), or nil for events that carry none.
	Execute(ctx *ExecContext, value *int) error
	// GetParameter and SetParameter provide schema-validated access to
	// the action's parameter bag, used by the JSON codec and by tests.
	GetParameter(name string) (Value, bool)
	SetParameter(name string, v Value) error
}

// ExecContext carries everything an action's Execute needs: the
// effectors it may drive and the profile-scoped state store. It is
// borrowed per call, never owned by an action.
type ExecContext struct {
	Effectors *effector.Set
	State     *state.Store
}

// ValueCondition is one entry of a ValueConditionList parameter (§4.4
// step 5): min <= value <= max fires Action.
type ValueCondition struct {
	Min         int
	Max         int
	Action      Action
	Description string
}

// Value is a typed parameter value, tagged by Kind.
type Value struct {
	Kind       Kind
	Int        int
	Bool       bool
	Str        string
	Bytes      []byte
	Sub        Action
	SubList    []Action
	Conditions []ValueCondition
}

// IntValue, BoolValue, etc. are convenience constructors used by the
// codec and by tests constructing parameter values directly.
func IntValue(v int) Value                        { return Value{Kind: KindInteger, Int: v} }
func EnumValue(v int) Value                        { return Value{Kind: KindEnum, Int: v} }
func BoolValue(v bool) Value                       { return Value{Kind: KindBoolean, Bool: v} }
func StringValue(v string) Value                   { return Value{Kind: KindString, Str: v} }
func BytesValue(v []byte) Value                    { return Value{Kind: KindByteArray, Bytes: v} }
func SubActionValue(v Action) Value                { return Value{Kind: KindSubAction, Sub: v} }
func SubActionListValue(v []Action) Value          { return Value{Kind: KindSubActionList, SubList: v} }
func ConditionListValue(v []ValueCondition) Value  { return Value{Kind: KindValueConditionList, Conditions: v} }
