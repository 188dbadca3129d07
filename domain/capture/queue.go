package capture

import (
	"sync"
	"time"
)

// compactThreshold bounds how many consumed slots may accumulate at the head
// of the backing slice before it is compacted.
const compactThreshold = 1024

// Queue is an unbounded FIFO of Items. Put never blocks and never drops;
// readers either poll (TryGet, Drain) or wait with a bound (Get). It is safe
// for any number of concurrent producers and consumers.
type Queue struct {
	mu    sync.Mutex
	items []Item
	head  int
	ready chan struct{} // one-slot wake-up signal for Get
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Put appends it to the tail of the queue.
func (q *Queue) Put(it Item) {
	q.mu.Lock()
	q.items = append(q.items, it)
	q.mu.Unlock()
	q.signal()
}

// TryGet removes and returns the head item. ok is false when the queue is
// empty.
func (q *Queue) TryGet() (Item, bool) {
	q.mu.Lock()
	if q.head == len(q.items) {
		q.mu.Unlock()
		return Item{}, false
	}
	it := q.items[q.head]
	q.items[q.head] = Item{}
	q.head++
	remaining := len(q.items) - q.head
	q.compactLocked()
	q.mu.Unlock()
	if remaining > 0 {
		// Another waiter may have lost the wake-up token to us.
		q.signal()
	}
	return it, true
}

// Get waits up to timeout for an item. ok is false when the timeout elapsed
// with the queue still empty. A non-positive timeout behaves like TryGet.
func (q *Queue) Get(timeout time.Duration) (Item, bool) {
	if it, ok := q.TryGet(); ok {
		return it, true
	}
	if timeout <= 0 {
		return Item{}, false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.ready:
			if it, ok := q.TryGet(); ok {
				return it, true
			}
		case <-timer.C:
			return q.TryGet()
		}
	}
}

// Drain appends every queued item to dst in FIFO order and returns the
// extended slice. The queue is empty afterwards unless a Put raced in.
func (q *Queue) Drain(dst []Item) []Item {
	q.mu.Lock()
	pending := q.items[q.head:]
	dst = append(dst, pending...)
	clear(pending)
	q.items = q.items[:0]
	q.head = 0
	q.mu.Unlock()
	return dst
}

// Len reports the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue) compactLocked() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head < compactThreshold || q.head*2 < len(q.items) {
		return
	}
	n := copy(q.items, q.items[q.head:])
	clear(q.items[n:])
	q.items = q.items[:n]
	q.head = 0
}
