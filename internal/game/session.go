package game

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"bovpuzzle/internal/puzzle"
	"bovpuzzle/internal/viewmodel"
	"bovpuzzle/pkg/realtime"
)

// Game is the state owned by a session loop. Only touch it inside Session.Do.
type Game struct {
	Model  *puzzle.Model
	Splash *viewmodel.Splash
	Info   *viewmodel.Info
	Puzzle *viewmodel.Puzzle
}

// Page snapshots every region for the full page.
func (g *Game) Page(id string) viewmodel.GamePage {
	page := viewmodel.GamePage{
		Title:  "Puzzle",
		GameID: id,
		Splash: g.Splash.View(),
		Info:   g.Info.View(),
		Puzzle: g.Puzzle.View(),
	}
	page.Splash.GameID = id
	page.Info.GameID = id
	page.Puzzle.GameID = id
	return page
}

// Session is one player's game running on its own loop.
type Session struct {
	ID      string
	Created time.Time

	loop     *realtime.Loop
	game     *Game
	lastSeen atomic.Int64

	notify viewmodel.Notifier
	dirty  map[string]bool // loop only
}

// NewSession builds a game on a fresh loop. Region changes made by one loop task
// are collapsed and handed to notify, once per region, after the task ends.
// A nil rng seeds one from the clock.
func NewSession(id string, settings puzzle.Settings, notify viewmodel.Notifier, rng *rand.Rand) *Session {
	loop := realtime.NewLoop()
	model := puzzle.New(settings)
	now := time.Now()
	s := &Session{
		ID:      id,
		Created: now,
		loop:    loop,
		notify:  notify,
		dirty:   make(map[string]bool),
	}
	s.game = &Game{
		Model:  model,
		Splash: viewmodel.NewSplash(model, s),
		Info:   viewmodel.NewInfo(model, loop, s),
		Puzzle: viewmodel.NewPuzzle(model, loop, s, rng),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

var regionOrder = []string{viewmodel.RegionSplash, viewmodel.RegionInfo, viewmodel.RegionPuzzle}

// Publish implements viewmodel.Notifier for the view-models of this session.
func (s *Session) Publish(region string) {
	if len(s.dirty) == 0 {
		s.loop.Post(s.flush)
	}
	s.dirty[region] = true
}

func (s *Session) flush() {
	for _, region := range regionOrder {
		if s.dirty[region] {
			s.notify.Publish(region)
		}
	}
	clear(s.dirty)
}

// Do runs fn on the session loop and waits for it.
func (s *Session) Do(ctx context.Context, fn func(g *Game)) error {
	s.Touch(time.Now())
	err := s.loop.Do(ctx, func() { fn(s.game) })
	return errors.Wrapf(err, "session %s", s.ID)
}

// Page snapshots the full page on the session loop.
func (s *Session) Page(ctx context.Context) (viewmodel.GamePage, error) {
	var page viewmodel.GamePage
	err := s.Do(ctx, func(g *Game) { page = g.Page(s.ID) })
	return page, err
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Close stops the loop and every timer scheduled on it.
func (s *Session) Close() {
	s.loop.Close()
}

// Done is closed once the session loop has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.loop.Done()
}
