package core

import (
	"reflect"
	"slices"
	"weak"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/errors"
)

// Node is the live, stateful counterpart of a [Description].
//
// A node goes through three states: built (children rendered, nothing in a
// container), drawn (holding a container slot), and unmounted (dropped by an
// ancestor's reconciliation). All methods must be called from a single
// goroutine.
type Node interface {
	// Description returns the current description, with connected props
	// already resolved.
	Description() Description
	// Children returns the child nodes in render order. Callers must not
	// modify the returned slice.
	Children() []Node
	// Store returns the global store the node was built with.
	Store() Store
	// Parent returns the parent node, or nil for the root.
	Parent() Node
	// Drawn reports whether the node occupies a container slot.
	Drawn() bool

	// Draw materializes the node and its subtree into container.
	// It may be called once per node.
	Draw(container Container)
	// Update reconciles the node against desc without animation.
	Update(desc Description)
	// UpdateWithAnimation reconciles the node against desc, applying the
	// resulting view changes under anim.
	UpdateWithAnimation(desc Description, anim animation.Animation)
	// Reconnect re-derives a connected node's props from the current store
	// state, starting from the props its parent last supplied, and
	// reconciles the node under anim. Unconnected and unmounted nodes are
	// left alone.
	Reconnect(anim animation.Animation)

	base() *nodeBase
	state() any
}

// nodeBase holds the kind-independent part of a node.
type nodeBase struct {
	self      Node
	parent    weak.Pointer[nodeBase]
	store     Store
	children  []Node
	built     bool
	container Container
	unmounted bool
}

func (b *nodeBase) base() *nodeBase {
	return b
}

func (b *nodeBase) Children() []Node {
	return b.children
}

func (b *nodeBase) Store() Store {
	return b.store
}

func (b *nodeBase) Parent() Node {
	if parent := b.parent.Value(); parent != nil {
		return parent.self
	}
	return nil
}

func (b *nodeBase) Drawn() bool {
	return b.container != nil
}

// unmount marks the subtree dead and drops its container handles. The views
// themselves are removed by the parent's redraw.
func (b *nodeBase) unmount() {
	if b.unmounted {
		return
	}
	b.unmounted = true
	b.container = nil
	NodesUnmounted.Inc()
	for _, child := range b.children {
		child.base().unmount()
	}
}

type node[P, S, V any] struct {
	nodeBase // first field: weak pointers to it point at the node itself
	desc     Desc[P, S, V]
	// supplied is desc as the parent passed it, before Connect.
	supplied Desc[P, S, V]
	current  S
	setState func(S)
}

// indexedNode is an existing child queued for matching.
type indexedNode struct {
	node  Node
	index int
}

// NewRoot builds the root node for desc. The tree is rendered but not drawn.
func NewRoot(desc Description, store Store) Node {
	if desc == nil {
		errors.Violation("core.NewRoot", "", "root description is nil")
	}
	if store == nil {
		errors.Violation("core.NewRoot", desc.KindName(), "store is nil")
	}
	return desc.build(nil, store)
}

func newNode[P, S, V any](desc Desc[P, S, V], parent *nodeBase, store Store) *node[P, S, V] {
	n := &node[P, S, V]{desc: desc, supplied: desc}
	n.self = n
	n.store = store
	if parent != nil {
		n.parent = weak.Make(parent)
	}
	n.current = desc.Kind.initialState()
	n.setState = n.stateUpdater()
	n.desc.Props = n.connect(desc)

	rendered := n.render()
	n.children = make([]Node, 0, len(rendered))
	for _, child := range rendered {
		n.children = append(n.children, child.build(&n.nodeBase, store))
	}
	n.built = true
	NodesCreated.Inc()
	return n
}

// stateUpdater returns the closure handed to Render and Apply. It holds the
// node weakly and does nothing once the node is unmounted or collected.
func (n *node[P, S, V]) stateUpdater() func(S) {
	ptr := weak.Make(n)
	return func(next S) {
		if n := ptr.Value(); n != nil && !n.unmounted {
			n.update(next, n.desc, animation.None)
		}
	}
}

func (n *node[P, S, V]) Description() Description {
	return n.desc
}

func (n *node[P, S, V]) state() any {
	return n.current
}

func (n *node[P, S, V]) connect(desc Desc[P, S, V]) P {
	if desc.Kind.Connect == nil {
		return desc.Props
	}
	return desc.Kind.Connect(desc.Props, n.store.State())
}

func (n *node[P, S, V]) render() []Description {
	kind := n.desc.Kind
	var children []Description
	if kind.Render != nil {
		children = kind.Render(n.desc.Props, n.current, n.setState, n.store.Dispatch)
	}
	if kind.ProcessChildren != nil {
		children = kind.ProcessChildren(children)
	}
	return children
}

func (n *node[P, S, V]) Update(desc Description) {
	n.UpdateWithAnimation(desc, animation.None)
}

func (n *node[P, S, V]) UpdateWithAnimation(desc Description, anim animation.Animation) {
	next, ok := desc.(Desc[P, S, V])
	if !ok || next.Kind != n.desc.Kind {
		errors.Violation("core.Node.Update", n.desc.KindName(),
			"cannot update node of kind %s with a description of kind %s", n.desc.KindName(), kindNameOf(desc))
	}
	n.supplied = next
	next.Props = n.connect(next)
	n.update(n.current, next, anim)
}

func (n *node[P, S, V]) Reconnect(anim animation.Animation) {
	if n.desc.Kind.Connect == nil || n.unmounted {
		return
	}
	n.UpdateWithAnimation(n.supplied, anim)
}

func (n *node[P, S, V]) update(state S, desc Desc[P, S, V], parentAnimation animation.Animation) {
	if !n.built {
		errors.Violation("core.Node.update", n.desc.KindName(), "update should not be called before the node is built")
	}
	if equal(n.desc.Props, desc.Props) && equal(n.current, state) {
		Updates.WithLabelValues("skipped").Inc()
		return
	}

	childrenAnimation := n.desc.Kind.childrenAnimation(n.desc.Props, desc.Props, n.current, state, parentAnimation)

	n.desc = desc
	n.current = state
	Updates.WithLabelValues("applied").Inc()

	previous := n.children
	queues := make(map[replaceKey][]indexedNode, len(previous))
	for index, child := range previous {
		key := child.Description().replaceKey()
		queues[key] = append(queues[key], indexedNode{node: child, index: index})
	}

	rendered := n.render()
	nodes := make([]Node, 0, len(rendered))
	viewIndexes := make([]int, 0, len(rendered))
	var added []Node

	for _, childDesc := range rendered {
		key := childDesc.replaceKey()
		if queue := queues[key]; len(queue) > 0 {
			match := queue[0]
			queues[key] = queue[1:]
			if match.node.Description().replaceKey() != key {
				errors.Violation("core.Node.update", n.desc.KindName(), "matched child %s under a different replace key", match.node.Description().KindName())
			}
			match.node.UpdateWithAnimation(childDesc, childrenAnimation)
			nodes = append(nodes, match.node)
			viewIndexes = append(viewIndexes, match.index)
			continue
		}

		child := childDesc.build(&n.nodeBase, n.store)
		viewIndexes = append(viewIndexes, len(previous)+len(added))
		nodes = append(nodes, child)
		added = append(added, child)
	}

	n.children = nodes
	for _, queue := range queues {
		for _, stale := range queue {
			stale.node.base().unmount()
		}
	}

	n.redraw(added, viewIndexes, parentAnimation)
}

func (n *node[P, S, V]) Draw(container Container) {
	if !n.built {
		errors.Violation("core.Node.Draw", n.desc.KindName(), "draw cannot be called before the node is built")
	}
	if n.container != nil {
		errors.Violation("core.Node.Draw", n.desc.KindName(), "draw can only be called once on a node")
	}
	if container == nil {
		errors.Violation("core.Node.Draw", n.desc.KindName(), "draw requires a container")
	}

	n.container = container.Add(n.newView)
	n.container.Update(n.apply)
	NodeDraws.Inc()

	for _, child := range n.children {
		child.Draw(n.container)
	}
}

// redraw patches the container after an update: it reapplies this node's
// view under anim, draws the added children, then walks viewIndexes (old
// positions for matched children, append positions for added ones) to
// reorder the container and remove every view left unclaimed.
func (n *node[P, S, V]) redraw(added []Node, viewIndexes []int, anim animation.Animation) {
	container := n.container
	if container == nil {
		return
	}
	if len(viewIndexes) != len(n.children) {
		errors.Violation("core.Node.redraw", n.desc.KindName(), "%d view indexes for %d children", len(viewIndexes), len(n.children))
	}

	anim.Animate(func() {
		container.Update(n.apply)
	})

	for _, child := range added {
		child.Draw(container)
	}

	views := slices.Clone(container.Children())
	sorted := slices.IsSorted(viewIndexes)

	for _, index := range viewIndexes {
		if index < 0 || index >= len(views) || views[index] == nil {
			errors.Violation("core.Node.redraw", n.desc.KindName(), "view index %d is out of range or already claimed (%d views)", index, len(views))
		}
		if !sorted {
			container.BringToFront(views[index])
			Reorders.Inc()
		}
		views[index] = nil
	}

	for _, view := range views {
		if view != nil {
			container.Remove(view)
			Removals.Inc()
		}
	}
}

func (n *node[P, S, V]) newView() any {
	if n.desc.Kind.NewView == nil {
		return nil
	}
	return n.desc.Kind.NewView()
}

func (n *node[P, S, V]) apply(view any) {
	apply := n.desc.Kind.Apply
	if apply == nil {
		return
	}
	typed, ok := view.(V)
	if !ok && view != nil {
		errors.Violation("core.Node.apply", n.desc.KindName(), "container holds a %T, want %s", view, reflect.TypeFor[V]())
	}
	apply(n.desc.Props, n.current, typed, n.setState, n)
}
