package testing

import (
	"testing"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
)

// Tester mounts a node tree into a [Recorder] and drives updates on it.
// It installs a transitioner that logs animated mutations, so only one
// Tester should be active at a time.
type Tester struct {
	store    core.Store
	recorder *Recorder
	root     core.Node
}

// NewTester creates a tester. A nil store is replaced by an empty FakeStore.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(store core.Store) *Tester {
	if store == nil {
		store = &FakeStore{}
	}
	t := &Tester{store: store, recorder: NewRecorder()}
	animation.SetTransitioner(animation.TransitionerFunc(func(a animation.Animation, apply func()) {
		t.recorder.log.record("animate %s", a)
		apply()
	}))
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB, store core.Store) *Tester {
	tester := NewTester(store)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the global transitioner.
func (t *Tester) Cleanup() {
	animation.SetTransitioner(nil)
}

// Mount builds a root node for desc and draws it into the recorder.
func (t *Tester) Mount(desc core.Description) core.Node {
	t.root = core.NewRoot(desc, t.store)
	t.root.Draw(t.recorder)
	return t.root
}

// Update updates the root node without animation.
func (t *Tester) Update(desc core.Description) {
	t.root.Update(desc)
}

// UpdateWithAnimation updates the root node under anim.
func (t *Tester) UpdateWithAnimation(desc core.Description, anim animation.Animation) {
	t.root.UpdateWithAnimation(desc, anim)
}

// Root returns the mounted root node.
func (t *Tester) Root() core.Node {
	return t.root
}

// Store returns the store nodes are built with.
func (t *Tester) Store() core.Store {
	return t.store
}

// Recorder returns the root container.
func (t *Tester) Recorder() *Recorder {
	return t.recorder
}

// TakeOps returns and clears the container operations logged so far.
func (t *Tester) TakeOps() []string {
	return t.recorder.TakeOps()
}

// Tree renders the container slots with their ids.
func (t *Tester) Tree() string {
	return t.recorder.Tree()
}

// Find evaluates a finder against the current node tree.
func (t *Tester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(t.root),
		finder: finder,
	}
}
