// Package core provides the description and node framework and the
// reconciliation algorithm that keeps a container in sync with it.
//
// Application code describes what the hierarchy should look like with
// immutable descriptions; the engine maintains a tree of live nodes that
// mirrors them and patches an external [Container] incrementally, keeping
// node identity (and therefore state and views) across re-renders.
//
// # Core Types
//
// [Kind] declares a component: its props, state and native view types, its
// render function, and how props and state are applied to the view.
//
// [Desc] is an immutable description of one node, built with
// [Kind.Describe]. Its replace key, together with its kind, is the identity
// used to match children across renders.
//
// [Node] is the live instance. Build the root with [NewRoot], materialize it
// once with [Node.Draw], and feed it new descriptions with [Node.Update].
//
// # Reconciliation
//
// An update is a no-op when both props and state are equal to the current
// ones. Otherwise the node re-renders and matches each new child against
// the old children with the same kind and key, first come first served.
// Matched nodes are updated recursively; unmatched descriptions get fresh
// nodes; unmatched old nodes are unmounted and their views removed. When
// the surviving views are no longer in ascending order, each is brought to
// front in the new order.
//
// # Connected Kinds
//
// A kind with a Connect function derives its props from the global [Store]
// on construction and on every update:
//
//	var App = &core.Kind[AppProps, struct{}, *view.Stack]{
//	    Name:    "App",
//	    Connect: core.ConnectTo(func(p AppProps, s todo.State) AppProps {
//	        p.Todos = s.Todos
//	        return p
//	    }),
//	}
//
// # Contract Violations
//
// Drawing twice, updating a node with a description of another kind, or a
// corrupt index sequence during redraw are programmer errors. They are
// reported through [errors.ErrorHandler] and then panic.
package core
