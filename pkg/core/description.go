package core

import (
	"fmt"
	"reflect"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/errors"
)

// Description is an immutable blueprint for a [Node].
//
// The only implementation is [Desc]; build one with [Kind.Describe].
type Description interface {
	// Key returns the caller-chosen replace key. Together with the kind it
	// decides which existing node a description is matched against.
	Key() any
	// KindName returns the name of the description's kind.
	KindName() string
	// Connected reports whether props are derived from the global store.
	Connected() bool

	replaceKey() replaceKey
	props() any
	build(parent *nodeBase, store Store) Node
}

// replaceKey is the matching identity of a description: its kind plus the
// caller-supplied key, so descriptions of different kinds never match.
type replaceKey struct {
	kind any
	key  any
}

// Kind declares a component: the props, state and native view types shared
// by every description built from it. Declare kinds once, as package-level
// pointers; the pointer is the kind's identity.
//
//	var Counter = &core.Kind[CounterProps, CounterState, *view.Label]{
//	    Name: "Counter",
//	    Render: func(p CounterProps, s CounterState, update func(CounterState), dispatch core.Dispatch) []core.Description {
//	        return nil
//	    },
//	    NewView: view.NewLabel,
//	    Apply: func(p CounterProps, s CounterState, v *view.Label, update func(CounterState), node core.Node) {
//	        v.Text = fmt.Sprint(p.Count)
//	    },
//	}
type Kind[P, S, V any] struct {
	// Name identifies the kind in logs, errors and dumps.
	Name string

	// InitialState returns the state of a freshly built node.
	// Nil means the zero value of S.
	InitialState func() S

	// Render returns the ordered child descriptions for props and state.
	// update replaces the node's state; dispatch sends an action to the store.
	Render func(props P, state S, update func(S), dispatch Dispatch) []Description

	// NewView creates the native view the node occupies in its container.
	NewView func() V

	// Apply writes props and state onto the native view.
	Apply func(props P, state S, view V, update func(S), node Node)

	// ChildrenAnimation picks the animation passed to children on an update.
	// Nil passes the parent animation through unchanged.
	ChildrenAnimation func(currentProps, nextProps P, currentState, nextState S, parent animation.Animation) animation.Animation

	// Connect derives props from the parent-supplied props and a snapshot of
	// the global store state. A non-nil Connect marks the kind as connected.
	// parentProps are always the props the parent supplied, never a previous
	// result of Connect.
	Connect func(parentProps P, state any) P

	// ProcessChildren transforms rendered children before they are matched
	// or built. Nil is the identity.
	ProcessChildren func(children []Description) []Description
}

// Describe returns a description of this kind.
func (k *Kind[P, S, V]) Describe(key any, props P) Desc[P, S, V] {
	return Desc[P, S, V]{Kind: k, ReplaceKey: key, Props: props}
}

func (k *Kind[P, S, V]) name() string {
	if k == nil {
		return "<nil>"
	}
	if k.Name != "" {
		return k.Name
	}
	return fmt.Sprintf("Kind[%s]", reflect.TypeFor[P]())
}

func (k *Kind[P, S, V]) initialState() S {
	if k.InitialState != nil {
		return k.InitialState()
	}
	var zero S
	return zero
}

func (k *Kind[P, S, V]) childrenAnimation(currentProps, nextProps P, currentState, nextState S, parent animation.Animation) animation.Animation {
	if k.ChildrenAnimation == nil {
		return parent
	}
	return k.ChildrenAnimation(currentProps, nextProps, currentState, nextState, parent)
}

// Desc is a description of a node of kind Kind.
type Desc[P, S, V any] struct {
	Kind       *Kind[P, S, V]
	ReplaceKey any
	Props      P
}

// Key returns the replace key. It must be comparable; nil is allowed.
func (d Desc[P, S, V]) Key() any {
	return d.ReplaceKey
}

// KindName returns the name of the description's kind.
func (d Desc[P, S, V]) KindName() string {
	return d.Kind.name()
}

// Connected reports whether the kind derives props from the store.
func (d Desc[P, S, V]) Connected() bool {
	return d.Kind != nil && d.Kind.Connect != nil
}

func (d Desc[P, S, V]) replaceKey() replaceKey {
	if d.ReplaceKey != nil && !reflect.ValueOf(d.ReplaceKey).Comparable() {
		errors.Violation("core.Description.Key", d.KindName(), "replace key of type %T is not comparable", d.ReplaceKey)
	}
	return replaceKey{kind: d.Kind, key: d.ReplaceKey}
}

func (d Desc[P, S, V]) props() any {
	return d.Props
}

func (d Desc[P, S, V]) build(parent *nodeBase, store Store) Node {
	if d.Kind == nil {
		errors.Violation("core.Description.build", "", "description of %s has no kind", reflect.TypeFor[P]())
	}
	return newNode(d, parent, store)
}

// ConnectTo adapts a mapping over a typed global state to [Kind.Connect].
// A store whose snapshot is not a G is a contract violation.
func ConnectTo[P, G any](mapping func(parentProps P, state G) P) func(P, any) P {
	return func(parentProps P, state any) P {
		typed, ok := state.(G)
		if !ok {
			errors.Violation("core.ConnectTo", "", "store state is %T, want %s", state, reflect.TypeFor[G]())
		}
		return mapping(parentProps, typed)
	}
}

func kindNameOf(desc Description) string {
	if desc == nil {
		return "<nil>"
	}
	return desc.KindName()
}

// equal compares props or state values. Types with an Equal(T) bool method
// decide for themselves; everything else is compared with reflect.DeepEqual.
func equal[T any](a, b T) bool {
	if eq, ok := any(a).(interface{ Equal(T) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
