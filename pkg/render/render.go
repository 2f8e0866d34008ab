// Package render drives a node tree from a subscribable store.
//
// A [Renderer] owns the root node: it builds and draws it once, then
// re-renders whenever the store notifies a change. Store notifications can
// arrive on any goroutine; pass [WithSchedule] to move the re-render onto the
// goroutine that owns the container, for example with a [Queue].
package render

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/errors"
)

// Store is a [core.Store] that reports changes.
type Store interface {
	core.Store
	// Subscribe registers fn to run after every state change and returns a
	// function that removes it.
	Subscribe(fn func()) func()
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAnimation sets the animation applied to store-driven re-renders.
func WithAnimation(anim animation.Animation) Option {
	return func(r *Renderer) {
		r.anim = anim
	}
}

// WithLogger sets the logger for re-render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSchedule sets the function store notifications are routed through.
// The default runs the re-render immediately on the notifying goroutine.
func WithSchedule(schedule func(func())) Option {
	return func(r *Renderer) {
		if schedule != nil {
			r.schedule = schedule
		}
	}
}

// Renderer keeps a node tree in sync with a store.
type Renderer struct {
	desc      core.Description
	store     Store
	container core.Container

	anim     animation.Animation
	logger   *slog.Logger
	schedule func(func())

	mu          sync.Mutex
	root        core.Node
	unsubscribe func()
	closed      bool
	renders     int
	pending     atomic.Bool
}

// New creates a renderer for desc. Nothing is built until Render is called.
func New(desc core.Description, store Store, container core.Container, opts ...Option) *Renderer {
	r := &Renderer{
		desc:      desc,
		store:     store,
		container: container,
		logger:    slog.Default(),
		schedule:  func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the root node, draws it into the container and subscribes
// to the store. It returns the root node.
func (r *Renderer) Render() core.Node {
	root := r.mount()
	r.drain()
	return root
}

func (r *Renderer) mount() core.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root != nil {
		errors.Violation("render.Renderer.Render", r.desc.KindName(), "render can only be called once")
	}
	if r.closed {
		errors.Violation("render.Renderer.Render", "", "renderer is closed")
	}
	if r.store == nil || r.container == nil {
		errors.Violation("render.Renderer.Render", "", "renderer requires a store and a container")
	}

	r.root = core.NewRoot(r.desc, r.store)
	r.root.Draw(r.container)
	r.unsubscribe = r.store.Subscribe(func() {
		r.schedule(r.refresh)
	})
	r.drainLocked()
	r.logger.Debug("katana tree mounted", "kind", r.desc.KindName(), "children", len(r.root.Children()))
	return r.root
}

// Root returns the root node, or nil before Render.
func (r *Renderer) Root() core.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// Update replaces the root description and reconciles the tree against it
// under the renderer's animation.
func (r *Renderer) Update(desc core.Description) {
	r.replace(desc)
	r.drain()
}

func (r *Renderer) replace(desc core.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.desc = desc
	if r.root == nil || r.closed {
		return
	}
	r.root.UpdateWithAnimation(desc, r.anim)
	r.drainLocked()
}

// Renders returns the number of store-driven re-renders so far.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// Close stops listening to the store. The tree and its views are left as
// they are. Close is idempotent.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// refresh re-renders the tree against the current store state. A
// notification that arrives while the tree is busy, from a render callback
// or another goroutine, is picked up by the pass already holding the lock.
func (r *Renderer) refresh() {
	r.pending.Store(true)
	r.drain()
}

// drain runs pending re-renders until none is left or another goroutine
// holds the lock. A lock holder re-checks pending after it unlocks, so a
// notification that lands between its last pass and the unlock still runs.
func (r *Renderer) drain() {
	for r.pending.Load() && r.mu.TryLock() {
		r.drainAndUnlock()
	}
}

func (r *Renderer) drainAndUnlock() {
	defer r.mu.Unlock()
	r.drainLocked()
}

func (r *Renderer) drainLocked() {
	for r.pending.Swap(false) {
		if r.closed || r.root == nil {
			return
		}
		r.refreshLocked()
	}
}

// refreshLocked updates the root, then walks the tree top-down and re-runs
// every connected node below it against the new store state.
func (r *Renderer) refreshLocked() {
	start := time.Now()
	r.root.UpdateWithAnimation(r.desc, r.anim)
	refreshed := 0
	for _, child := range r.root.Children() {
		refreshed += r.refreshConnected(child)
	}
	r.renders++
	r.logger.Debug("katana re-render",
		"kind", r.desc.KindName(),
		"connected", refreshed,
		"animation", r.anim.String(),
		"elapsed", time.Since(start))
}

func (r *Renderer) refreshConnected(n core.Node) int {
	count := 0
	if n.Description().Connected() {
		n.Reconnect(r.anim)
		count++
	}
	for _, child := range n.Children() {
		count += r.refreshConnected(child)
	}
	return count
}
