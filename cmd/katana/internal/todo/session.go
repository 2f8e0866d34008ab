package todo

import (
	"fmt"
	"log/slog"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/render"
	"github.com/augmify/katana/pkg/store"
	"github.com/augmify/katana/pkg/view"
)

// Session is a mounted todo app.
type Session struct {
	store    *store.Store[State]
	host     *view.Host
	renderer *render.Renderer
}

// NewSession mounts the app for sc into a fresh view tree. Store changes
// are reconciled under anim.
func NewSession(sc *Scenario, logger *slog.Logger, anim animation.Animation) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store: store.New(sc.InitialState(), Reduce, store.Logger[State](logger)),
		host:  view.NewRoot(),
	}
	s.renderer = render.New(App.Describe(nil, AppProps{}), s.store, s.host,
		render.WithAnimation(anim),
		render.WithLogger(logger))
	s.renderer.Render()
	return s
}

// Host returns the root of the view tree.
func (s *Session) Host() *view.Host {
	return s.host
}

// Root returns the root node.
func (s *Session) Root() core.Node {
	return s.renderer.Root()
}

// State returns the current store state.
func (s *Session) State() State {
	return s.store.Current()
}

// Apply runs one scenario step.
func (s *Session) Apply(step Step) error {
	switch {
	case step.Add != nil:
		todo, err := step.Add.todo()
		if err != nil {
			return err
		}
		s.store.Dispatch(AddTodo{Todo: todo})
	case step.Remove != "":
		s.store.Dispatch(RemoveTodo{ID: step.Remove})
	case step.Move != nil:
		s.store.Dispatch(MoveTodo{ID: step.Move.ID, To: step.Move.To})
	case step.Toggle != "":
		s.store.Dispatch(ToggleTodo{ID: step.Toggle})
	case step.Select != "":
		return s.Tap(step.Select)
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

// Tap taps the box of the item with the given id.
func (s *Session) Tap(id string) error {
	host := s.host.Find(func(v any) bool {
		box, ok := v.(*view.Box)
		return ok && box.Name == id
	})
	if host == nil {
		return fmt.Errorf("no item %q on screen", id)
	}
	host.View().(*view.Box).Tap()
	return nil
}

// Close detaches the app from its store.
func (s *Session) Close() {
	s.renderer.Close()
}
