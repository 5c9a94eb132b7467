package viewmodel

import (
	"bovpuzzle/internal/puzzle"
	"bovpuzzle/pkg/realtime"
	"bovpuzzle/pkg/timer"
)

// Info drives the game clock, the statistics panel and the modals.
type Info struct {
	model  *puzzle.Model
	sched  realtime.Scheduler
	notify Notifier

	visible    bool
	gameTimer  *timer.Timer
	clock      string
	critical   bool
	minutes    int
	seconds    int
	wrongShown bool // wrong count shown once the player has moved a piece
	tips       bool

	modalRestart  bool
	modalGameOver bool
	modalWinner   bool
	flash         *timer.Timer
	restarting    bool

	sound Sound
}

// NewInfo binds an info view-model to model. Timers run on sched.
func NewInfo(model *puzzle.Model, sched realtime.Scheduler, notify Notifier) *Info {
	i := &Info{model: model, sched: sched, notify: notify}
	i.bindEvents()
	return i
}

func (i *Info) bindEvents() {
	i.model.On(puzzle.EventPreStart, func(int) {
		i.setupTimer()
		i.changed()
	})
	i.model.On(puzzle.EventStart, func(int) { i.enableView() })
	i.model.On(puzzle.EventResumeGame, func(int) { i.enableView() })
	i.model.On(puzzle.EventPauseGame, func(int) { i.pauseView() })

	i.model.On(puzzle.EventDecreaseMissingPieces, func(int) { i.changed() })
	i.model.On(puzzle.EventIncreaseMissingPieces, func(int) { i.changed() })
	i.model.On(puzzle.EventSetWrongPieces, func(int) {
		i.wrongShown = true
		i.changed()
	})
	i.model.On(puzzle.EventUpdateTips, func(int) { i.changed() })
	i.model.On(puzzle.EventToggleAudio, func(int) { i.changed() })

	i.model.On(puzzle.EventWrongSequence, func(int) { i.showWrongSequence() })
	i.model.On(puzzle.EventGameOver, func(int) {
		i.pauseView()
		i.modalRestart = false
		i.modalGameOver = true
		i.play(i.model.Audio().Fail)
		i.changed()
	})
	i.model.On(puzzle.EventWinner, func(int) {
		i.pauseView()
		i.modalRestart = false
		i.modalWinner = true
		i.play(i.model.Audio().Clapping)
		i.changed()
	})
}

func (i *Info) setupTimer() {
	i.visible = true
	i.gameTimer = timer.New(i.model.GameLevel().Minutes*60, 1, i.sched)
	i.updateClock(i.gameTimer.Minutes(), i.gameTimer.Seconds())
	i.gameTimer.OnTick(func(tick timer.Tick) {
		i.updateClock(tick.Minutes, tick.Seconds)
		i.changed()
	})
	i.gameTimer.OnceElapsed(func() { i.model.GameOver() })
}

func (i *Info) updateClock(minutes, seconds int) {
	i.minutes = minutes
	i.seconds = seconds
	i.clock = timerPad(minutes) + ":" + timerPad(seconds)
	i.critical = minutes == 0
}

// enableView runs the clock and offers tips, but only while the board is in play.
func (i *Info) enableView() {
	if i.model.State() != puzzle.StateRunning || i.gameTimer == nil {
		return
	}
	if i.gameTimer.IsStarted() {
		i.gameTimer.Resume()
	} else {
		i.gameTimer.Start()
	}
	i.tips = i.model.GameLevel().Tips > 0
	i.changed()
}

func (i *Info) pauseView() {
	if i.gameTimer != nil {
		i.gameTimer.Pause()
	}
	i.tips = false
	i.changed()
}

func (i *Info) showWrongSequence() {
	if i.flash != nil {
		i.flash.Pause()
	}
	flash := timer.New(timer.FromDuration(i.model.CountDownWrongPiecesTime()), 1, i.sched)
	flash.OnceElapsed(func() {
		if i.flash == flash {
			i.flash = nil
			i.changed()
		}
	})
	i.flash = flash
	flash.Start()
	i.play(i.model.Audio().Fail)
	i.changed()
}

func (i *Info) play(src string) {
	if !i.model.AudioEnabled() || src == "" {
		return
	}
	i.sound = Sound{Src: src, Seq: i.sound.Seq + 1}
}

func (i *Info) changed() { i.notify.Publish(RegionInfo) }

// GetTips spends a tip. The puzzle view shows the solution and resumes the game afterwards.
func (i *Info) GetTips() {
	if !i.tips {
		return
	}
	i.model.DecreaseTips()
}

// ShowModalRestart pauses the game behind the restart confirmation.
func (i *Info) ShowModalRestart() {
	if i.model.IsGameOver() || i.model.IsWon() {
		return
	}
	i.modalRestart = true
	i.model.Hold(puzzle.PauseForModal)
	i.changed()
}

// CloseModal dismisses the restart confirmation. Play resumes unless a tip
// preview still holds the game.
func (i *Info) CloseModal() {
	if !i.modalRestart {
		return
	}
	i.modalRestart = false
	i.model.Release(puzzle.PauseForModal)
	i.changed()
}

// ToggleAudio mutes or unmutes the game once it has started.
func (i *Info) ToggleAudio() {
	if !i.model.IsStarted() {
		return
	}
	i.model.ToggleAudio()
}

// RestartGame stops the clocks and marks the region as leaving. The caller
// replaces the session with a fresh one.
func (i *Info) RestartGame() {
	if i.gameTimer != nil {
		i.gameTimer.Pause()
	}
	if i.flash != nil {
		i.flash.Pause()
		i.flash = nil
	}
	i.modalRestart = false
	i.restarting = true
	i.changed()
}

// Restarting reports whether RestartGame was called.
func (i *Info) Restarting() bool { return i.restarting }

// GameTimer returns the game clock, nil before pre-start.
func (i *Info) GameTimer() *timer.Timer { return i.gameTimer }

// View returns the region snapshot.
func (i *Info) View() InfoView {
	level := i.model.GameLevel()
	wrong := "-"
	if i.wrongShown {
		wrong = itoa(i.model.WrongPieces())
	}
	v := InfoView{
		Visible:      i.visible,
		Clock:        i.clock,
		Critical:     i.critical,
		TipsEnabled:  i.tips,
		AudioEnabled: i.model.AudioEnabled(),
		AudioActive:  i.model.IsStarted(),
		Stats: Stats{
			LevelName:     level.Name,
			TotalPieces:   i.model.TotalPieces(),
			MissingPieces: i.model.MissingPieces(),
			WrongPieces:   wrong,
			AvailableTips: level.Tips,
		},
		ModalRestart:  i.modalRestart,
		ModalGameOver: i.modalGameOver,
		ModalWinner:   i.modalWinner,
		Sound:         i.sound,
	}
	if i.gameTimer != nil {
		v.TimeLevel = i.gameTimer.InitialTime()
		if level.Minutes > 0 {
			v.MinutesRatio = float64(i.minutes) / float64(level.Minutes)
		}
		v.SecondsRatio = float64(i.seconds) / 60
	}
	if i.flash != nil {
		v.WrongSequence = i.flash.ID().String()
	}
	return v
}
