// Package animation describes how visual mutations produced by a re-render
// are applied.
//
// An [Animation] is an immutable descriptor. The reconciler threads one down
// the tree on every update and wraps the view mutation of each node in
// [Animation.Animate]. Animate never defers the mutation: the block runs
// before Animate returns, and the installed [Transitioner] only decides how
// the presentation layer interpolates the change.
package animation

import (
	"fmt"
	"sync"
	"time"
)

// Type enumerates the animation variants.
type Type int

const (
	// TypeNone applies mutations immediately without a transition.
	TypeNone Type = iota
	// TypeLinear interpolates at constant speed.
	TypeLinear
	// TypeCurved interpolates along an easing curve.
	TypeCurved
	// TypeSpring interpolates with a damped spring.
	TypeSpring
)

// String returns a human-readable representation of the animation type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeLinear:
		return "linear"
	case TypeCurved:
		return "curved"
	case TypeSpring:
		return "spring"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Animation is an immutable transition descriptor.
type Animation struct {
	// Type selects the variant.
	Type Type
	// Duration is the length of the transition.
	Duration time.Duration
	// Curve transforms linear progress. Only used by TypeCurved and TypeSpring.
	Curve func(float64) float64
	// Damping is the spring damping ratio in (0, 1].
	Damping float64
	// Velocity is the initial spring velocity.
	Velocity float64
}

// None is the no-op animation.
var None = Animation{}

// Linear returns a linear animation lasting d.
func Linear(d time.Duration) Animation {
	return Animation{Type: TypeLinear, Duration: d}
}

// Curved returns an animation lasting d that eases along curve.
// A nil curve behaves like [LinearCurve].
func Curved(d time.Duration, curve func(float64) float64) Animation {
	return Animation{Type: TypeCurved, Duration: d, Curve: curve}
}

// Spring returns a damped spring animation lasting d.
func Spring(d time.Duration, damping, velocity float64) Animation {
	return Animation{
		Type:     TypeSpring,
		Duration: d,
		Curve:    SpringCurve(damping, velocity),
		Damping:  damping,
		Velocity: velocity,
	}
}

// IsNone reports whether a applies mutations without a transition.
// Zero-length animations of any type count as none.
func (a Animation) IsNone() bool {
	return a.Type == TypeNone || a.Duration <= 0
}

// Progress returns the eased progress at t, where t is the linear fraction
// of Duration elapsed. t is clamped to [0, 1].
func (a Animation) Progress(t float64) float64 {
	t = clampUnit(t)
	if a.IsNone() {
		return 1
	}
	if a.Type == TypeLinear || a.Curve == nil {
		return t
	}
	return a.Curve(t)
}

func (a Animation) String() string {
	if a.IsNone() {
		return "none"
	}
	switch a.Type {
	case TypeSpring:
		return fmt.Sprintf("spring(%s, damping=%g, velocity=%g)", a.Duration, a.Damping, a.Velocity)
	default:
		return fmt.Sprintf("%s(%s)", a.Type, a.Duration)
	}
}

// Animate applies the mutation in apply under this animation. For [None]
// the block runs directly; otherwise it is handed to the installed
// [Transitioner], which must run it exactly once before returning.
func (a Animation) Animate(apply func()) {
	if apply == nil {
		return
	}
	if a.IsNone() {
		apply()
		return
	}
	currentTransitioner().Transition(a, apply)
}

// Transitioner is the presentation layer's hook for animated mutations.
type Transitioner interface {
	// Transition runs apply synchronously and arranges for the resulting
	// visual change to be interpolated according to a.
	Transition(a Animation, apply func())
}

// TransitionerFunc adapts a function to the Transitioner interface.
type TransitionerFunc func(a Animation, apply func())

// Transition calls f(a, apply).
func (f TransitionerFunc) Transition(a Animation, apply func()) {
	f(a, apply)
}

// Immediate is the default Transitioner: it runs the mutation with no
// interpolation.
var Immediate Transitioner = TransitionerFunc(func(_ Animation, apply func()) {
	apply()
})

var (
	transitioner   = Immediate
	transitionerMu sync.RWMutex
)

// SetTransitioner installs the global Transitioner.
// Pass nil to restore Immediate.
func SetTransitioner(t Transitioner) {
	transitionerMu.Lock()
	defer transitionerMu.Unlock()
	if t == nil {
		transitioner = Immediate
	} else {
		transitioner = t
	}
}

func currentTransitioner() Transitioner {
	transitionerMu.RLock()
	defer transitionerMu.RUnlock()
	return transitioner
}
