package testing

import "github.com/augmify/katana/pkg/core"

// FakeStore is a [core.Store] whose snapshot is set directly by the test.
type FakeStore struct {
	// Value is returned by State.
	Value any
	// Actions records every dispatched action in order.
	Actions []core.Action
	// OnDispatch, if set, runs after an action is recorded.
	OnDispatch func(action core.Action)
}

var _ core.Store = (*FakeStore)(nil)

func (s *FakeStore) State() any {
	return s.Value
}

func (s *FakeStore) Dispatch(action core.Action) {
	s.Actions = append(s.Actions, action)
	if s.OnDispatch != nil {
		s.OnDispatch(action)
	}
}
