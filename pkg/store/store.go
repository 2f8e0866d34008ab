// Package store provides a reducer-based global store that satisfies
// [core.Store].
//
// A Store holds one state value of type S. Dispatched actions pass through
// the middleware chain and then the reducer; listeners registered with
// Subscribe run after every dispatch. Dispatch is safe to call from any
// goroutine.
package store

import (
	"maps"
	"slices"
	"sync"

	"github.com/augmify/katana/pkg/core"
)

// Reducer returns the state that results from applying action to state.
// It must not mutate state in place.
type Reducer[S any] func(state S, action core.Action) S

// Middleware wraps the dispatch chain. getState reads the current state;
// next passes the action on toward the reducer.
type Middleware[S any] func(getState func() S, next core.Dispatch) core.Dispatch

// Store is a goroutine-safe state container.
type Store[S any] struct {
	mu             sync.Mutex
	state          S
	reducer        Reducer[S]
	dispatch       core.Dispatch
	listeners      map[int]func()
	nextListenerID int
}

var _ core.Store = (*Store[int])(nil)

// New creates a store holding initial. Middleware is applied outermost
// first: the first middleware sees an action before the second.
func New[S any](initial S, reducer Reducer[S], middleware ...Middleware[S]) *Store[S] {
	s := &Store[S]{
		state:     initial,
		reducer:   reducer,
		listeners: make(map[int]func()),
	}
	s.dispatch = s.reduce
	for _, m := range slices.Backward(middleware) {
		s.dispatch = m(s.Current, s.dispatch)
	}
	return s
}

// State returns the current state as an untyped snapshot.
func (s *Store[S]) State() any {
	return s.Current()
}

// Current returns the current state.
func (s *Store[S]) Current() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch sends action through the middleware chain to the reducer.
func (s *Store[S]) Dispatch(action core.Action) {
	s.dispatch(action)
}

// Subscribe adds a callback that fires after every reduced action.
// Returns an unsubscribe function.
func (s *Store[S]) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store[S]) reduce(action core.Action) {
	s.mu.Lock()
	if s.reducer != nil {
		s.state = s.reducer(s.state, action)
	}
	ids := slices.Sorted(maps.Keys(s.listeners))
	listeners := make([]func(), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}
