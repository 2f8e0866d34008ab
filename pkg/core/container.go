package core

// Container is the presentation-layer seam the reconciler draws into.
//
// Add returns the handle of the new child slot, which is itself a Container
// for that node's own children. Handles are opaque to the reconciler: it only
// compares and passes them back. Children must report the handles in z-order,
// bottom first, with Add appending on top and BringToFront moving a handle to
// the top.
type Container interface {
	// Add creates a child slot holding the view returned by newView.
	Add(newView func() any) Container
	// Update calls apply with the container's own view.
	Update(apply func(view any))
	// Remove deletes a child slot and everything under it.
	Remove(child Container)
	// Children returns the child slots in z-order.
	Children() []Container
	// BringToFront moves a child slot above all its siblings.
	BringToFront(child Container)
}

// Action is a message dispatched to the global store.
type Action = any

// Dispatch sends an action to the global store.
type Dispatch func(action Action)

// Store is the global application-state container. The reconciler only
// reads snapshots and forwards dispatches; it never subscribes.
type Store interface {
	// State returns a snapshot of the global state.
	State() any
	// Dispatch sends an action to the store.
	Dispatch(action Action)
}
