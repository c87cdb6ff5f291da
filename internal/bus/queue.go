package bus

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/errors"

	"tradecore/internal/event"
)

var (
	ErrQueueFull   = errors.New("bus: event queue full")
	ErrQueueClosed = errors.New("bus: event queue closed")
)

// Envelope is the unit passed through the in-memory bus.
type Envelope struct {
	Event      event.Event
	ReceivedAt time.Time
}

// Queue is a bounded event queue with a single consumer, so events reach the
// handler in the order they were published.
type Queue struct {
	mu        sync.RWMutex
	ch        chan Envelope
	done      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		ch:   make(chan Envelope, capacity),
		done: make(chan struct{}),
	}
}

// Publish enqueues an event, waiting while the queue is full. It returns
// ErrQueueClosed once the queue is closed, or the context error.
func (q *Queue) Publish(ctx context.Context, e Envelope) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish enqueues an event without blocking. Producers whose events may
// be lost use it; broker order events go through Publish.
func (q *Queue) TryPublish(e Envelope) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len is the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the queue from accepting new events. Queued events are still
// delivered by Run.
func (q *Queue) Close() {
	// Wake blocked publishers first, they hold the read lock.
	q.closeOnce.Do(func() { close(q.done) })

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Run consumes events until the context is done or the queue is closed and
// drained.
func (q *Queue) Run(ctx context.Context, handler func(Envelope)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.ch:
			if !ok {
				return
			}
			handler(e)
		}
	}
}
