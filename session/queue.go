package session

import "sync"

// eventQueue is a mutex-guarded FIFO with one producer (the session
// worker) and any number of non-blocking consumers.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *eventQueue) push(events ...Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, events...)
}

// drain returns all pending events and clears the queue. A drain with
// nothing pending returns nil.
func (q *eventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	drained := q.events
	q.events = nil
	return drained
}

func (q *eventQueue) pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) > 0
}
