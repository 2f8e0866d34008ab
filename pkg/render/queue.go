package render

import "sync"

// Queue collects callbacks from any goroutine and runs them on the goroutine
// that calls Drain. Pass q.Dispatch to [WithSchedule] to keep every tree
// mutation on one goroutine.
type Queue struct {
	mu        sync.Mutex
	callbacks []func()
	notify    chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Dispatch schedules callback to run on the next Drain. It is safe to call
// from any goroutine.
func (q *Queue) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	q.mu.Lock()
	q.callbacks = append(q.callbacks, callback)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives a value after callbacks are queued.
func (q *Queue) Ready() <-chan struct{} {
	return q.notify
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.callbacks)
}

// Drain runs the queued callbacks in order and returns how many ran.
// Callbacks queued while draining run in the same call.
func (q *Queue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		callbacks := q.callbacks
		q.callbacks = nil
		q.mu.Unlock()
		if len(callbacks) == 0 {
			return ran
		}
		for _, callback := range callbacks {
			callback()
		}
		ran += len(callbacks)
	}
}
