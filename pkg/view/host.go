// Package view is an in-memory presentation layer for the reconciler.
//
// A [Host] is a container slot holding one view and an ordered list of child
// slots. It implements [core.Container], so a node tree can be drawn into a
// Host tree and inspected without any platform toolkit.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/errors"
)

// Host is a container slot. The zero value is an empty root.
type Host struct {
	view     any
	parent   *Host
	children []*Host
}

var _ core.Container = (*Host)(nil)

// NewRoot returns an empty root host with no view of its own.
func NewRoot() *Host {
	return &Host{}
}

// View returns the view held by the host.
func (h *Host) View() any {
	return h.view
}

// Parent returns the host this one was added to, or nil.
func (h *Host) Parent() *Host {
	return h.parent
}

// Hosts returns the child hosts in z-order, bottom first.
func (h *Host) Hosts() []*Host {
	return slices.Clone(h.children)
}

// Add appends a child host on top of its siblings.
func (h *Host) Add(newView func() any) core.Container {
	child := &Host{parent: h}
	if newView != nil {
		child.view = newView()
	}
	h.children = append(h.children, child)
	return child
}

// Update calls apply with the host's view.
func (h *Host) Update(apply func(view any)) {
	apply(h.view)
}

// Remove detaches child and its subtree.
func (h *Host) Remove(child core.Container) {
	i := h.indexOf(child, "view.Host.Remove")
	h.children[i].parent = nil
	h.children = slices.Delete(h.children, i, i+1)
}

// Children returns the child hosts in z-order.
func (h *Host) Children() []core.Container {
	out := make([]core.Container, len(h.children))
	for i, c := range h.children {
		out[i] = c
	}
	return out
}

// BringToFront moves child above its siblings.
func (h *Host) BringToFront(child core.Container) {
	i := h.indexOf(child, "view.Host.BringToFront")
	c := h.children[i]
	h.children = append(slices.Delete(h.children, i, i+1), c)
}

func (h *Host) indexOf(child core.Container, op string) int {
	c, ok := child.(*Host)
	if ok {
		if i := slices.Index(h.children, c); i >= 0 {
			return i
		}
	}
	errors.Violation(op, "", "%T is not a child of this host", child)
	return -1
}

// Find returns the first host below h, in pre-order, whose view satisfies
// match, or nil.
func (h *Host) Find(match func(view any) bool) *Host {
	for _, c := range h.children {
		if match(c.view) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// String renders the subtree below h, one view per line, indented by depth.
func (h *Host) String() string {
	var sb strings.Builder
	h.write(&sb, 0)
	return sb.String()
}

func (h *Host) write(sb *strings.Builder, depth int) {
	if h.parent != nil || h.view != nil {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(Describe(h.view))
		sb.WriteString("\n")
		depth++
	}
	for _, c := range h.children {
		c.write(sb, depth)
	}
}

// Describe returns a one-line description of a view.
func Describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "<empty>"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
