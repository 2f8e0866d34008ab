package todo

import (
	"fmt"
	"time"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/view"
)

// AppProps are resolved from the store by App's Connect.
type AppProps struct {
	Title string
	Todos []Todo
}

// App is the root kind: a title, one Item per todo and a footer.
var App = &core.Kind[AppProps, struct{}, *view.Stack]{
	Name:    "App",
	NewView: view.NewStack,
	Render: func(p AppProps, _ struct{}, _ func(struct{}), _ core.Dispatch) []core.Description {
		children := make([]core.Description, 0, len(p.Todos)+2)
		children = append(children, Text.Describe("title", TextProps{Text: p.Title}))
		for _, todo := range p.Todos {
			children = append(children, Item.Describe(todo.ID, ItemProps{Todo: todo}))
		}
		return append(children, Footer.Describe("footer", FooterProps{}))
	},
	Connect: core.ConnectTo(func(p AppProps, s State) AppProps {
		p.Title = s.Title
		p.Todos = s.Todos
		return p
	}),
}

// TextProps configure a Text.
type TextProps struct {
	Text          string
	Strikethrough bool
}

// Text is a leaf label.
var Text = &core.Kind[TextProps, struct{}, *view.Label]{
	Name:    "Text",
	NewView: view.NewLabel,
	Apply: func(p TextProps, _ struct{}, v *view.Label, _ func(struct{}), _ core.Node) {
		v.Text = p.Text
		v.Strikethrough = p.Strikethrough
	},
}

// ItemProps configure an Item.
type ItemProps struct {
	Todo Todo
}

// ItemState is local to each item and survives reorders.
type ItemState struct {
	Selected bool
}

// checkAnimation is used for the label of an item whose done flag changed.
var checkAnimation = animation.Curved(150*time.Millisecond, animation.EaseOut)

// Item draws a colored box holding the todo title. Tapping the box toggles
// its selection.
var Item = &core.Kind[ItemProps, ItemState, *view.Box]{
	Name:    "Item",
	NewView: view.NewBox,
	Render: func(p ItemProps, _ ItemState, _ func(ItemState), _ core.Dispatch) []core.Description {
		return []core.Description{
			Text.Describe("label", TextProps{Text: p.Todo.Title, Strikethrough: p.Todo.Done}),
		}
	},
	Apply: func(p ItemProps, s ItemState, v *view.Box, update func(ItemState), _ core.Node) {
		v.Name = p.Todo.ID
		v.Color = p.Todo.Color
		v.Selected = s.Selected
		v.OnTap = func() {
			update(ItemState{Selected: !s.Selected})
		}
	},
	ChildrenAnimation: func(cur, next ItemProps, _, _ ItemState, parent animation.Animation) animation.Animation {
		if cur.Todo.Done != next.Todo.Done {
			return checkAnimation
		}
		return parent
	},
}

// FooterProps are resolved from the store by Footer's Connect.
type FooterProps struct {
	Done  int
	Total int
}

// Footer summarizes progress.
var Footer = &core.Kind[FooterProps, struct{}, *view.Label]{
	Name:    "Footer",
	NewView: view.NewLabel,
	Apply: func(p FooterProps, _ struct{}, v *view.Label, _ func(struct{}), _ core.Node) {
		v.Text = fmt.Sprintf("%d of %d done", p.Done, p.Total)
	},
	Connect: core.ConnectTo(func(_ FooterProps, s State) FooterProps {
		p := FooterProps{Total: len(s.Todos)}
		for _, todo := range s.Todos {
			if todo.Done {
				p.Done++
			}
		}
		return p
	}),
}
