package platform

import "sync/atomic"

// EventQueue is the bounded hand-off between the window-system hooks and
// their consumer. Offer never blocks; events that do not fit are dropped and
// counted. The channel is never closed, so late offers from a hook that is
// still winding down stay safe.
type EventQueue struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewEventQueue returns a queue buffering up to size events. A size <= 0 is
// treated as 1.
func NewEventQueue(size int) *EventQueue {
	if size <= 0 {
		size = 1
	}
	return &EventQueue{ch: make(chan Event, size)}
}

// Offer enqueues ev without blocking. It reports false when the event was
// dropped.
func (q *EventQueue) Offer(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Push enqueues ev, evicting the oldest queued events until it fits.
// Evicted events are counted as dropped. Use it for events where the newest
// value matters more than the backlog.
func (q *EventQueue) Push(ev Event) {
	for {
		select {
		case q.ch <- ev:
			return
		default:
		}
		select {
		case <-q.ch:
			q.dropped.Add(1)
		default:
		}
	}
}

// Events is the receive side, drained by a single consumer.
func (q *EventQueue) Events() <-chan Event {
	return q.ch
}

// Dropped returns how many events were discarded because the queue was full.
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
