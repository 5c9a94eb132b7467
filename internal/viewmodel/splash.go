// Package viewmodel connects page regions to a puzzle.Model. Each view-model
// subscribes to model events, keeps a snapshot of its region and reports changes
// to a Notifier; user actions come in as method calls and go out as model calls.
//
// View-models share the Model's threading rule: use them from the session loop only.
package viewmodel

import (
	"strconv"

	"bovpuzzle/internal/puzzle"
)

// Splash drives the level picker shown before the game.
type Splash struct {
	model   *puzzle.Model
	notify  Notifier
	visible bool
}

// NewSplash binds a splash view-model to model.
func NewSplash(model *puzzle.Model, notify Notifier) *Splash {
	s := &Splash{model: model, notify: notify, visible: true}
	s.bindEvents()
	return s
}

func (s *Splash) bindEvents() {
	// The pre-start event closes the splash screen.
	s.model.On(puzzle.EventPreStart, func(int) {
		s.visible = false
		s.notify.Publish(RegionSplash)
	})
}

// SetGameLevel selects the level to play.
func (s *Splash) SetGameLevel(id int) {
	if s.model.IsStarted() {
		return
	}
	s.model.SetGameLevel(id)
	s.notify.Publish(RegionSplash)
}

// PreStart submits the splash form.
func (s *Splash) PreStart() {
	s.model.PreStart()
}

// View returns the region snapshot.
func (s *Splash) View() SplashView {
	current := s.model.GameLevel()
	levels := s.model.Levels()
	options := make([]LevelOption, 0, len(levels))
	for _, level := range levels {
		options = append(options, LevelOption{
			ID:       level.ID,
			Name:     level.Name,
			Icon:     level.Icon,
			Selected: level.ID == current.ID,
		})
	}
	return SplashView{
		Visible:     s.visible,
		Levels:      options,
		Description: "Maximum time for completing: " + strconv.Itoa(current.Minutes) + " minutes",
	}
}
