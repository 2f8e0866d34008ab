package core_test

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/augmify/katana/pkg/animation"
	"github.com/augmify/katana/pkg/core"
	katanatest "github.com/augmify/katana/pkg/testing"
	"github.com/augmify/katana/pkg/view"
)

type counterProps struct {
	Count int
}

// Counter renders a single child keyed "item" whose label shows the count.
var Counter = &core.Kind[counterProps, struct{}, *view.Stack]{
	Name:    "Counter",
	NewView: view.NewStack,
	Render: func(p counterProps, _ struct{}, _ func(struct{}), _ core.Dispatch) []core.Description {
		return []core.Description{Item.Describe("item", itemProps{Label: fmt.Sprintf("count %d", p.Count)})}
	},
}

func requireOps(t *testing.T, tester *katanatest.Tester, want ...string) {
	t.Helper()
	got := tester.TakeOps()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("container ops mismatch (-want +got):\n%s", diff)
	}
}

func TestCounterScenario(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(Counter.Describe(nil, counterProps{Count: 0}))
	tester.TakeOps()

	require.Len(t, root.Children(), 1)
	child := root.Children()[0]

	tester.Update(Counter.Describe(nil, counterProps{Count: 0}))
	requireOps(t, tester)
	assert.Same(t, child, root.Children()[0])

	tester.Update(Counter.Describe(nil, counterProps{Count: 1}))
	requireOps(t, tester,
		`update v2: label "count 1"`,
		`update v1: stack(vertical)`,
	)
	require.Len(t, root.Children(), 1)
	assert.Same(t, child, root.Children()[0], "the keyed child must be retained")
}

func TestNoopUpdateLeavesChildrenUntouched(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(list("a", "b"))
	tester.TakeOps()
	before := root.Children()

	tester.Update(list("a", "b"))

	requireOps(t, tester)
	after := root.Children()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
}

func TestKeyStableIdentityAcrossReorders(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(list("a", "b"))
	tester.TakeOps()
	a, b := root.Children()[0], root.Children()[1]

	tester.Update(list("b", "a"))
	requireOps(t, tester,
		`update v1: stack(vertical)`,
		`front v3`,
		`front v2`,
	)
	require.Len(t, root.Children(), 2)
	assert.Same(t, b, root.Children()[0])
	assert.Same(t, a, root.Children()[1])
	assert.Equal(t, "v1 stack(vertical)\n  v3 label \"b\"\n  v2 label \"a\"\n", tester.Tree())

	// Surrounding the pair with new siblings does not disturb them either.
	tester.Update(list("x", "b", "y", "a", "z"))
	children := root.Children()
	require.Len(t, children, 5)
	assert.Same(t, b, children[1])
	assert.Same(t, a, children[3])
}

func TestFIFOMatchingUnderDuplicateKeys(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(list("k=first", "k=second"))
	first, second := root.Children()[0], root.Children()[1]

	tester.Update(list("k=one", "k=two", "k=three"))

	children := root.Children()
	require.Len(t, children, 3)
	assert.Same(t, first, children[0])
	assert.Same(t, second, children[1])
	assert.Equal(t, "one", children[0].Description().(core.Desc[itemProps, itemState, *view.Label]).Props.Label)
	assert.Equal(t, "two", children[1].Description().(core.Desc[itemProps, itemState, *view.Label]).Props.Label)
}

func TestCreationAndRemovalAccounting(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(list("a", "b", "c"))
	tester.TakeOps()
	old := root.Children()

	created := testutil.ToFloat64(core.NodesCreated)
	tester.Update(list("a", "x", "y"))

	assert.Equal(t, created+2, testutil.ToFloat64(core.NodesCreated), "one node per new key")
	requireOps(t, tester,
		`update v1: stack(vertical)`,
		`add v5`,
		`update v5: label "x"`,
		`add v6`,
		`update v6: label "y"`,
		`remove v3`,
		`remove v4`,
	)
	assert.Same(t, old[0], root.Children()[0])
	assert.False(t, old[1].Drawn(), "removed nodes drop their container handle")
	assert.False(t, old[2].Drawn())
	assert.True(t, root.Children()[1].Drawn())
}

func TestSortedIndexesIssueNoReorders(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	tester.Mount(list("a", "b", "c", "d"))
	tester.TakeOps()

	reorders := testutil.ToFloat64(core.Reorders)
	tester.Update(list("a", "c", "d", "e"))

	assert.Equal(t, reorders, testutil.ToFloat64(core.Reorders))
	for _, op := range tester.TakeOps() {
		assert.NotContains(t, op, "front")
	}
}

func TestUpdateBeforeDrawDefersContainerWork(t *testing.T) {
	store := &katanatest.FakeStore{}
	root := core.NewRoot(list("a"), store)
	assert.False(t, root.Drawn())

	root.Update(list("a", "b"))
	require.Len(t, root.Children(), 2)
	for _, child := range root.Children() {
		assert.False(t, child.Drawn())
	}

	rec := katanatest.NewRecorder()
	root.Draw(rec)
	assert.Equal(t, []string{
		`add v1`,
		`update v1: stack(vertical)`,
		`add v2`,
		`update v2: label "a"`,
		`add v3`,
		`update v3: label "b"`,
	}, rec.TakeOps())
}

func TestTreeNavigation(t *testing.T) {
	store := &katanatest.FakeStore{}
	root := core.NewRoot(list("a"), store)

	assert.Nil(t, root.Parent())
	assert.Same(t, store, root.Store())
	child := root.Children()[0]
	assert.Same(t, root, child.Parent())
	assert.Same(t, store, child.Store())
	assert.Equal(t, "a", child.Description().Key())
	assert.Equal(t, "Item", child.Description().KindName())
	assert.False(t, child.Description().Connected())
}

func TestDrawTwiceIsFatal(t *testing.T) {
	root := core.NewRoot(list("a"), &katanatest.FakeStore{})
	rec := katanatest.NewRecorder()
	root.Draw(rec)
	rec.TakeOps()

	err := expectViolation(func() { root.Draw(rec) })
	assert.Equal(t, "core.Node.Draw", err.Op)
	assert.Equal(t, "List", err.Node)
	assert.Empty(t, rec.TakeOps(), "a rejected draw must not touch the container")
}

func TestDrawNilContainerIsFatal(t *testing.T) {
	root := core.NewRoot(list(), &katanatest.FakeStore{})
	err := expectViolation(func() { root.Draw(nil) })
	assert.Contains(t, err.Error(), "requires a container")
}

func TestUpdateWithOtherKindIsFatal(t *testing.T) {
	root := core.NewRoot(list("a"), &katanatest.FakeStore{})
	err := expectViolation(func() {
		root.Update(Counter.Describe(nil, counterProps{}))
	})
	assert.Equal(t, "core.Node.Update", err.Op)
	assert.Contains(t, err.Error(), "kind Counter")

	err = expectViolation(func() { root.Update(nil) })
	assert.Contains(t, err.Error(), "<nil>")
}

func TestUpdateDuringConstructionIsFatal(t *testing.T) {
	eager := &core.Kind[struct{}, int, any]{
		Name: "Eager",
		Render: func(_ struct{}, s int, update func(int), _ core.Dispatch) []core.Description {
			if s == 0 {
				update(1)
			}
			return nil
		},
	}
	err := expectViolation(func() {
		core.NewRoot(eager.Describe(nil, struct{}{}), &katanatest.FakeStore{})
	})
	assert.Contains(t, err.Error(), "before the node is built")
}

func TestNewRootRejectsMissingInputs(t *testing.T) {
	expectViolation(func() { core.NewRoot(nil, &katanatest.FakeStore{}) })
	expectViolation(func() { core.NewRoot(list(), nil) })
	expectViolation(func() {
		core.NewRoot(core.Desc[listProps, struct{}, *view.Stack]{}, &katanatest.FakeStore{})
	})
}

func TestNonComparableKeyIsFatal(t *testing.T) {
	keys := map[string]any{
		"slice":           []string{"slice"},
		"slice in struct": struct{ V any }{V: []int{1}},
	}
	for name, key := range keys {
		t.Run(name, func(t *testing.T) {
			bad := &core.Kind[int, struct{}, any]{
				Name: "Bad",
				Render: func(int, struct{}, func(struct{}), core.Dispatch) []core.Description {
					return []core.Description{Item.Describe(key, itemProps{})}
				},
			}
			root := core.NewRoot(bad.Describe(nil, 0), &katanatest.FakeStore{})
			err := expectViolation(func() {
				root.Update(bad.Describe(nil, 1))
			})
			assert.Contains(t, err.Error(), "not comparable")
		})
	}
}

// shrinkingContainer forgets its children, so the reconciler's index
// bookkeeping no longer matches what the container reports.
type shrinkingContainer struct {
	*katanatest.Recorder
}

func (c shrinkingContainer) Add(newView func() any) core.Container {
	return shrinkingContainer{c.Recorder.Add(newView).(*katanatest.Recorder)}
}

func (c shrinkingContainer) Children() []core.Container {
	return nil
}

func TestRedrawIndexMismatchIsFatal(t *testing.T) {
	root := core.NewRoot(list("a"), &katanatest.FakeStore{})
	root.Draw(shrinkingContainer{katanatest.NewRecorder()})

	err := expectViolation(func() { root.Update(list("a", "b")) })
	assert.Equal(t, "core.Node.redraw", err.Op)
	assert.Contains(t, err.Error(), "out of range")
}

func TestStateUpdaterIsNoopAfterRemoval(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	clear(itemUpdaters)
	tester.Mount(list("a", "b"))
	stale := itemUpdaters["b"]
	require.NotNil(t, stale)

	tester.Update(list("a"))
	tester.TakeOps()

	stale(itemState{Count: 3})
	requireOps(t, tester)
}

func TestStateUpdaterDoesNotRetainNode(t *testing.T) {
	var update func(itemState)
	func() {
		root := core.NewRoot(list("a"), &katanatest.FakeStore{})
		clear(itemUpdaters)
		root.Draw(katanatest.NewRecorder())
		update = itemUpdaters["a"]
	}()
	clear(itemUpdaters)
	runtime.GC()

	// Whether or not the node has been collected, calling the updater of an
	// undrawn or vanished node must be safe.
	assert.NotPanics(t, func() { update(itemState{Count: 1}) })
}

func TestStateUpdateRerendersOnlyThatNode(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	clear(itemUpdaters)
	tester.Mount(list("a", "b"))
	tester.TakeOps()

	itemUpdaters["b"](itemState{Count: 2})
	requireOps(t, tester, `update v3: label "b (2)"`)

	itemUpdaters["b"](itemState{Count: 2})
	requireOps(t, tester)
}

func TestChildrenAnimationPolicy(t *testing.T) {
	type seen struct {
		cur, next int
		parent    animation.Type
	}
	var calls []seen
	animated := &core.Kind[counterProps, struct{}, *view.Stack]{
		Name:    "Animated",
		NewView: view.NewStack,
		Render:  Counter.Render,
		ChildrenAnimation: func(cur, next counterProps, _, _ struct{}, parent animation.Animation) animation.Animation {
			calls = append(calls, seen{cur.Count, next.Count, parent.Type})
			if next.Count > cur.Count {
				return animation.Linear(50 * time.Millisecond)
			}
			return parent
		},
	}

	tester := katanatest.NewTesterWithT(t, nil)
	tester.Mount(animated.Describe(nil, counterProps{Count: 0}))
	tester.TakeOps()

	tester.Update(animated.Describe(nil, counterProps{Count: 1}))
	requireOps(t, tester,
		`animate linear(50ms)`,
		`update v2: label "count 1"`,
		`update v1: stack(vertical)`,
	)

	tester.Update(animated.Describe(nil, counterProps{Count: 0}))
	requireOps(t, tester,
		`update v2: label "count 0"`,
		`update v1: stack(vertical)`,
	)

	assert.Equal(t, []seen{{0, 1, animation.TypeNone}, {1, 0, animation.TypeNone}}, calls)
}

func TestProcessChildrenHook(t *testing.T) {
	filtered := &core.Kind[listProps, struct{}, *view.Stack]{
		Name:    "Filtered",
		NewView: view.NewStack,
		Render:  List.Render,
		ProcessChildren: func(children []core.Description) []core.Description {
			var kept []core.Description
			for _, c := range children {
				if c.Key() != "hidden" {
					kept = append(kept, c)
				}
			}
			return kept
		},
	}

	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(filtered.Describe(nil, listProps{Items: []string{"a", "hidden", "b"}}))
	require.Len(t, root.Children(), 2)

	tester.Update(filtered.Describe(nil, listProps{Items: []string{"hidden", "c"}}))
	require.Len(t, root.Children(), 1)
	assert.Equal(t, "c", root.Children()[0].Description().Key())
}

type globalState struct {
	User string
}

type greetingProps struct {
	Greeting string
	Text     string
}

var Greeting = &core.Kind[greetingProps, struct{}, *view.Label]{
	Name:    "Greeting",
	NewView: view.NewLabel,
	Apply: func(p greetingProps, _ struct{}, v *view.Label, _ func(struct{}), _ core.Node) {
		v.Text = p.Text
	},
	Connect: core.ConnectTo(func(p greetingProps, s globalState) greetingProps {
		p.Text = p.Greeting + ", " + s.User
		return p
	}),
}

func TestConnectedPropsFollowStore(t *testing.T) {
	store := &katanatest.FakeStore{Value: globalState{User: "ada"}}
	tester := katanatest.NewTesterWithT(t, store)
	root := tester.Mount(Greeting.Describe(nil, greetingProps{Greeting: "hello"}))
	requireOps(t, tester, `add v1`, `update v1: label "hello, ada"`)
	assert.True(t, root.Description().Connected())

	tester.Update(Greeting.Describe(nil, greetingProps{Greeting: "hello"}))
	requireOps(t, tester)

	store.Value = globalState{User: "grace"}
	tester.Update(Greeting.Describe(nil, greetingProps{Greeting: "hello"}))
	requireOps(t, tester, `update v1: label "hello, grace"`)
}

type tallyProps struct {
	Step  int
	Total int
}

type tallyState struct {
	Delta int
}

// Tally accumulates into its props, so it only stays stable when Connect
// always starts from the props its parent supplied.
var Tally = &core.Kind[tallyProps, struct{}, *view.Label]{
	Name:    "Tally",
	NewView: view.NewLabel,
	Apply: func(p tallyProps, _ struct{}, v *view.Label, _ func(struct{}), _ core.Node) {
		v.Text = fmt.Sprint(p.Total)
	},
	Connect: core.ConnectTo(func(p tallyProps, s tallyState) tallyProps {
		p.Total += p.Step + s.Delta
		return p
	}),
}

func TestReconnectStartsFromSuppliedProps(t *testing.T) {
	store := &katanatest.FakeStore{Value: tallyState{Delta: 10}}
	tester := katanatest.NewTesterWithT(t, store)
	root := tester.Mount(Tally.Describe(nil, tallyProps{Step: 1}))
	requireOps(t, tester, `add v1`, `update v1: label "11"`)

	root.Reconnect(animation.None)
	root.Reconnect(animation.None)
	requireOps(t, tester)

	store.Value = tallyState{Delta: 20}
	root.Reconnect(animation.None)
	requireOps(t, tester, `update v1: label "21"`)
	assert.Equal(t, tallyProps{Step: 1, Total: 21},
		root.Description().(core.Desc[tallyProps, struct{}, *view.Label]).Props)

	tester.Update(Tally.Describe(nil, tallyProps{Step: 2}))
	requireOps(t, tester, `update v1: label "22"`)
	root.Reconnect(animation.None)
	requireOps(t, tester)
}

func TestReconnectIgnoresUnconnectedNodes(t *testing.T) {
	tester := katanatest.NewTesterWithT(t, nil)
	root := tester.Mount(list("a"))
	tester.TakeOps()

	root.Reconnect(animation.Linear(time.Second))
	root.Children()[0].Reconnect(animation.None)
	requireOps(t, tester)
}

func TestConnectToRejectsWrongStateType(t *testing.T) {
	store := &katanatest.FakeStore{Value: "not a globalState"}
	err := expectViolation(func() {
		core.NewRoot(Greeting.Describe(nil, greetingProps{}), store)
	})
	assert.Equal(t, "core.ConnectTo", err.Op)
}

func TestDispatchReachesStore(t *testing.T) {
	clicker := &core.Kind[struct{}, struct{}, any]{
		Name: "Clicker",
		Render: func(_ struct{}, _ struct{}, _ func(struct{}), dispatch core.Dispatch) []core.Description {
			dispatch("rendered")
			return nil
		},
	}
	store := &katanatest.FakeStore{}
	core.NewRoot(clicker.Describe(nil, struct{}{}), store)
	assert.Equal(t, []core.Action{"rendered"}, store.Actions)
}

func TestViewTypeMismatchIsFatal(t *testing.T) {
	mislabeled := &core.Kind[struct{}, struct{}, *view.Label]{
		Name:    "Mislabeled",
		NewView: view.NewLabel,
		Apply:   func(struct{}, struct{}, *view.Label, func(struct{}), core.Node) {},
	}
	root := core.NewRoot(mislabeled.Describe(nil, struct{}{}), &katanatest.FakeStore{})
	err := expectViolation(func() { root.Draw(boxContainer{katanatest.NewRecorder()}) })
	assert.Equal(t, "core.Node.apply", err.Op)
}

// boxContainer ignores the view factory and always holds a Box.
type boxContainer struct {
	*katanatest.Recorder
}

func (c boxContainer) Add(func() any) core.Container {
	return c.Recorder.Add(func() any { return view.NewBox() })
}

func TestDumpYAML(t *testing.T) {
	store := &katanatest.FakeStore{}
	root := core.NewRoot(list("a", "b=B"), store)
	root.Draw(katanatest.NewRecorder())

	data, err := core.DumpYAML(root)
	require.NoError(t, err)

	var dump core.TreeDump
	require.NoError(t, yaml.Unmarshal(data, &dump))
	assert.Equal(t, "List", dump.Kind)
	assert.True(t, dump.Drawn)
	require.Len(t, dump.Children, 2)
	assert.Equal(t, "b", dump.Children[1].Key)
	assert.Equal(t, "{Label:B}", dump.Children[1].Props)
	assert.Equal(t, "{Count:0}", dump.Children[1].State)
	assert.Empty(t, dump.State, "empty structs are left out")
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, core.RegisterMetrics(reg))
	require.NoError(t, core.RegisterMetrics(reg), "registering twice is harmless")

	skipped := testutil.ToFloat64(core.Updates.WithLabelValues("skipped"))
	root := core.NewRoot(list("a"), &katanatest.FakeStore{})
	root.Update(list("a"))
	assert.Equal(t, skipped+1, testutil.ToFloat64(core.Updates.WithLabelValues("skipped")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["katana_nodes_created_total"])
	assert.True(t, names["katana_updates_total"])
}
