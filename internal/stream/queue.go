package stream

import (
	"sync"
	"time"
)

const defaultQueueCapacity = 64

// Queue is an unbounded FIFO of events with a blocking Pop.
// Any number of goroutines may Push; one goroutine is expected to Pop.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	buf      []Event
	head     int
	size     int
	sealed   bool
	closed   bool
}

func NewQueue() *Queue {
	q := &Queue{
		buf: make([]Event, defaultQueueCapacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends ev. It reports false once the queue is sealed or closed.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sealed || q.closed {
		return false
	}
	if q.size == len(q.buf) {
		q.grow()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = ev
	q.size++
	q.notEmpty.Signal()
	return true
}

func (q *Queue) grow() {
	buf := make([]Event, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}

// Pop removes the oldest event, blocking while the queue is empty.
// It reports false once the queue is closed, or sealed and drained.
func (q *Queue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closed {
			return Event{}, false
		}
		if q.size > 0 {
			ev := q.buf[q.head]
			q.buf[q.head] = Event{}
			q.head = (q.head + 1) % len(q.buf)
			q.size--
			return ev, true
		}
		if q.sealed {
			return Event{}, false
		}
		q.notEmpty.Wait()
	}
}

// Seal rejects further pushes. Queued events stay readable.
func (q *Queue) Seal() {
	q.mu.Lock()
	q.sealed = true
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}

// Close discards queued events and wakes blocked readers.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	clear(q.buf)
	q.size = 0
	q.head = 0
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	size := q.size
	q.mu.Unlock()
	return size
}

// Sealed reports whether the queue accepts no more events.
func (q *Queue) Sealed() bool {
	q.mu.Lock()
	sealed := q.sealed || q.closed
	q.mu.Unlock()
	return sealed
}
