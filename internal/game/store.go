package game

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"bovpuzzle/internal/log"
	"bovpuzzle/internal/puzzle"
	"bovpuzzle/internal/viewmodel"
	"bovpuzzle/pkg/realtime"
)

// Store holds sessions and delegates to realtime.RoomStore for lookup and broadcast.
type Store struct {
	r        *realtime.RoomStore[*Session]
	settings puzzle.Settings
	ttl      time.Duration
	log      *log.Logger
}

// NewStore creates an in-memory session store. Sessions idle longer than ttl
// are closed by Sweep; a ttl of zero keeps them forever.
func NewStore(settings puzzle.Settings, ttl time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		r:        realtime.NewRoomStore[*Session](),
		settings: settings.Validate().Clone(),
		ttl:      ttl,
		log:      logger,
	}
}

// Create starts a session and registers its broadcaster. Region changes are
// published to the session's subscribers.
func (s *Store) Create() *Session {
	id := newID()
	notify := viewmodel.NotifierFunc(func(region string) {
		s.r.Publish(id, region)
	})
	session := NewSession(id, s.settings, notify, nil)
	s.r.Create(id, session)
	s.log.Infof("session %s created", id)
	return session
}

// Get returns a session by ID if it exists.
func (s *Store) Get(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Broadcaster returns the SSE broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster[string], bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session with a region name.
func (s *Store) Publish(id string, region string) {
	s.r.Publish(id, region)
}

// Close removes a session, stops its loop and disconnects its subscribers.
func (s *Store) Close(id string) bool {
	room, ok := s.r.Delete(id)
	if !ok {
		return false
	}
	room.State.Close()
	s.log.Infof("session %s closed", id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Sweep closes sessions idle since before now minus the TTL and reports how many it closed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	var stale []string
	s.r.Each(func(room *realtime.Room[*Session]) {
		if now.Sub(room.State.LastSeen()) > s.ttl {
			stale = append(stale, room.ID)
		}
	})
	closed := 0
	for _, id := range stale {
		if s.Close(id) {
			closed++
		}
	}
	if closed > 0 {
		s.log.Debugf("swept %d idle sessions", closed)
	}
	return closed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// CloseAll closes every session.
func (s *Store) CloseAll() {
	var ids []string
	s.r.Each(func(room *realtime.Room[*Session]) { ids = append(ids, room.ID) })
	for _, id := range ids {
		s.Close(id)
	}
}

func newID() string {
	// 10 bytes -> 16 chars of base32, short and url-safe.
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(encoder.EncodeToString(buf))
}
