package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// ErrLoopClosed is returned when work is submitted to a closed Loop.
var ErrLoopClosed = errors.New("realtime: loop closed")

// Scheduler runs fn every interval until the returned cancel func is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// Loop runs posted closures one at a time, in FIFO order, on a single goroutine.
// State owned by a Loop needs no locking as long as it is only touched from closures
// running on it.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewLoop starts an empty loop.
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

// Post queues fn. It reports false if the loop is closed.
// Post never blocks, so closures running on the loop may post follow-up work.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to return.
// It must not be called from a closure already running on the loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for loop")
	}
}

// Every implements Scheduler. Each tick is posted to the loop; once cancel has
// been called, ticks that were already queued are dropped.
func (l *Loop) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Second
	}
	stop := make(chan struct{})
	var cancelled atomic.Bool
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelled.Store(true)
			close(stop)
		})
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(func() {
					if !cancelled.Load() {
						fn()
					}
				})
			}
		}
	}()
	return cancel
}

// Close stops the loop. Queued closures that have not started are discarded
// and every schedule created with Every stops.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
	l.mu.Unlock()
}

// Done is closed once the loop has been closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}
		for {
			l.mu.Lock()
			if l.closed || len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			fn := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			fn()
		}
	}
}
