package form

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed is returned by Run once the queue has been closed
var ErrQueueClosed = errors.New("event queue closed")

// Loop runs functions on the goroutine that owns the controller
type Loop interface {
	Post(fn func())
}

// Queue is a channel-backed Loop. Other goroutines post to it; the owner drains it,
// either from a bubbletea command or with Run.
type Queue struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

func NewQueue(buffer int) *Queue {
	return &Queue{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the buffer is full and drops fn once the queue is closed.
func (q *Queue) Post(fn func()) {
	select {
	case <-q.done:
		return
	default:
	}

	select {
	case q.events <- fn:
	case <-q.done:
	}
}

// Events exposes the queue for owners that select on it themselves
func (q *Queue) Events() <-chan func() {
	return q.events
}

// Done is closed when the queue is closed
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Flush runs every event already queued and returns how many ran
func (q *Queue) Flush() int {
	n := 0
	for {
		select {
		case fn := <-q.events:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run executes events until until reports true, ctx ends or the queue closes
func (q *Queue) Run(ctx context.Context, until func() bool) error {
	for !until() {
		select {
		case fn := <-q.events:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return ErrQueueClosed
		}
	}
	return nil
}

func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

var _ Loop = (*Queue)(nil)

// Timer is a stoppable pending call
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls. The callback may run on any goroutine.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock is backed by time.AfterFunc
var SystemClock Clock = systemClock{}

// loopTimer delivers its callback through a Loop. Stop must be called from the
// loop goroutine; once stopped, the callback never runs, even if its expiry was
// already queued.
type loopTimer struct {
	inner   Timer
	stopped bool
}

func afterOnLoop(clock Clock, loop Loop, d time.Duration, fn func()) *loopTimer {
	t := &loopTimer{}
	t.inner = clock.AfterFunc(d, func() {
		loop.Post(func() {
			if t.stopped {
				return
			}
			t.stopped = true
			fn()
		})
	})
	return t
}

func (t *loopTimer) Stop() {
	t.stopped = true
	t.inner.Stop()
}
