// Package testing provides a harness for exercising the reconciler without
// a real presentation layer.
//
// # Quick Start
//
// Create a tester, mount a description, and inspect the container calls:
//
//	func TestList(t *testing.T) {
//	    tester := katanatest.NewTesterWithT(t, nil)
//	    tester.Mount(List.Describe(nil, []string{"a", "b"}))
//	    tester.TakeOps() // discard the initial draw
//
//	    tester.Update(List.Describe(nil, []string{"b", "a"}))
//	    // tester.TakeOps() == []string{"update v1: ...", "front v3", "front v2"}
//	}
//
// Every container slot gets a stable id (v1, v2, ...) in creation order.
// Operations are logged as "add vN", "update vN: <view>", "front vN" and
// "remove vN"; mutations applied under a non-none animation are preceded by
// "animate <animation>".
//
// # Finders
//
// Locate nodes in the live tree:
//
//	item := tester.Find(katanatest.ByKey("a")).First()
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import katanatest "github.com/augmify/katana/pkg/testing"
package testing
