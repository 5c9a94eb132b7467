package realtime

import (
	"sync"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster[string]
}

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
// An existing room with the same id is replaced and its subscribers are closed.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rooms[id]; ok && old.hub != nil {
		old.hub.Close()
	}
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster[string](DefaultBuffer)}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes a room and closes its subscribers. It returns the removed room.
func (s *RoomStore[T]) Delete(id string) (*Room[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	delete(s.rooms, id)
	if r.hub != nil {
		r.hub.Close()
	}
	return r, true
}

// Each calls fn for a snapshot of the current rooms.
func (s *RoomStore[T]) Each(fn func(*Room[T])) {
	s.mu.RLock()
	rooms := make([]*Room[T], 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()
	for _, r := range rooms {
		fn(r)
	}
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	hub, ok := s.Broadcaster(id)
	if !ok {
		return
	}
	hub.Publish(event)
}

// Broadcaster returns the broadcaster for the room, creating it if the room exists but had none.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster[string], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	if r.hub == nil {
		r.hub = NewBroadcaster[string](DefaultBuffer)
	}
	return r.hub, true
}

// Hub returns the room's broadcaster.
func (r *Room[T]) Hub() *Broadcaster[string] {
	return r.hub
}
