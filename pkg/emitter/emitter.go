// Package emitter provides a small synchronous publish/subscribe primitive.
package emitter

import "sync"

// Handle identifies one listener registration. It is returned by On and Once
// and is the only way to remove a registration.
type Handle uint64

type listener[V any] struct {
	handle Handle
	fn     func(V)
}

// Emitter dispatches values of type V to listeners registered under keys of type K.
// Listeners run synchronously on the goroutine calling Emit, in registration order.
type Emitter[K comparable, V any] struct {
	mu        sync.Mutex
	next      Handle
	listeners map[K][]listener[V]
}

// New creates an empty emitter.
func New[K comparable, V any]() *Emitter[K, V] {
	return &Emitter[K, V]{listeners: make(map[K][]listener[V])}
}

// On appends fn to the listeners of event. Registering the same function twice
// yields two independent registrations.
func (e *Emitter[K, V]) On(event K, fn func(V)) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[K][]listener[V])
	}
	e.next++
	e.listeners[event] = append(e.listeners[event], listener[V]{handle: e.next, fn: fn})
	return e.next
}

// Once registers fn for a single invocation. The registration is removed before
// fn runs, so a re-entrant Emit of the same event from inside fn does not call it again.
func (e *Emitter[K, V]) Once(event K, fn func(V)) Handle {
	var h Handle
	var mu sync.Mutex
	fired := false
	h = e.On(event, func(v V) {
		mu.Lock()
		if fired {
			mu.Unlock()
			return
		}
		fired = true
		mu.Unlock()
		e.RemoveListener(event, h)
		fn(v)
	})
	return h
}

// RemoveListener drops the registration h from event. Unknown events or handles are ignored.
func (e *Emitter[K, V]) RemoveListener(event K, h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.listeners[event]
	for i, l := range list {
		if l.handle != h {
			continue
		}
		// Copy so snapshots taken by an in-flight Emit stay intact.
		rest := make([]listener[V], 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)
		if len(rest) == 0 {
			delete(e.listeners, event)
		} else {
			e.listeners[event] = rest
		}
		return
	}
}

// Emit calls every listener currently registered for event with v.
// Emitting an event nobody listens to is a no-op.
func (e *Emitter[K, V]) Emit(event K, v V) {
	e.mu.Lock()
	snapshot := append([]listener[V](nil), e.listeners[event]...)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// ListenerCount reports how many registrations event currently has.
func (e *Emitter[K, V]) ListenerCount(event K) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
