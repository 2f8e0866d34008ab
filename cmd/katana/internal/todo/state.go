// Package todo is the demo application driven by "katana run": a todo list
// whose items are reconciled into a [view.Host] tree from a reducer store.
package todo

import (
	"slices"

	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/view"
)

// Todo is one entry of the list.
type Todo struct {
	ID    string
	Title string
	Done  bool
	Color view.Color
}

// State is the global application state.
type State struct {
	Title string
	Todos []Todo
}

// Index returns the position of the todo with the given id, or -1.
func (s State) Index(id string) int {
	return slices.IndexFunc(s.Todos, func(t Todo) bool { return t.ID == id })
}

// AddTodo appends a todo. Ids already in the list are ignored.
type AddTodo struct {
	Todo Todo
}

// RemoveTodo deletes a todo.
type RemoveTodo struct {
	ID string
}

// MoveTodo moves a todo to a new position, clamped to the list bounds.
type MoveTodo struct {
	ID string
	To int
}

// ToggleTodo flips the done flag of a todo.
type ToggleTodo struct {
	ID string
}

// Reduce applies action to s. Unknown actions and unknown ids leave the
// state unchanged.
func Reduce(s State, action core.Action) State {
	switch a := action.(type) {
	case AddTodo:
		if s.Index(a.Todo.ID) >= 0 {
			return s
		}
		s.Todos = append(slices.Clip(s.Todos), a.Todo)
	case RemoveTodo:
		i := s.Index(a.ID)
		if i < 0 {
			return s
		}
		s.Todos = slices.Delete(slices.Clone(s.Todos), i, i+1)
	case MoveTodo:
		i := s.Index(a.ID)
		if i < 0 {
			return s
		}
		todo := s.Todos[i]
		todos := slices.Delete(slices.Clone(s.Todos), i, i+1)
		to := min(max(a.To, 0), len(todos))
		s.Todos = slices.Insert(todos, to, todo)
	case ToggleTodo:
		i := s.Index(a.ID)
		if i < 0 {
			return s
		}
		s.Todos = slices.Clone(s.Todos)
		s.Todos[i].Done = !s.Todos[i].Done
	}
	return s
}
