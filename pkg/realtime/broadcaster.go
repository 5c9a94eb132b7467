package realtime

import "sync"

// DefaultBuffer is the per-subscriber channel size used by NewBroadcaster when
// a non-positive size is given.
const DefaultBuffer = 10

// Broadcaster publishes lightweight events to SSE subscribers.
type Broadcaster[T any] struct {
	mu      sync.Mutex
	subs    map[chan T]struct{}
	buffer  int
	dropped uint64
}

// NewBroadcaster creates an empty broadcaster whose subscribers get channels of the given size.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster[T]{
		subs:   make(map[chan T]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its event channel.
func (b *Broadcaster[T]) Subscribe() chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to all subscribers.
func (b *Broadcaster[T]) Publish(event T) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Lagging subscriber; it re-renders on the next event anyway.
			b.dropped++
		}
	}
	b.mu.Unlock()
}

// Close unsubscribes everyone.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Len returns the number of current subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Broadcaster[T]) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
