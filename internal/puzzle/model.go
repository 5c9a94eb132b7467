// Package puzzle holds the game model: the single source of truth for a puzzle
// session's progress. Every state change is announced as an Event.
//
// Calls that arrive in the wrong phase, or that would push a counter out of its
// range, are ignored without an error and without emitting anything.
// A Model is not safe for concurrent use; it lives on its session's loop.
package puzzle

import (
	"time"

	"bovpuzzle/pkg/emitter"
)

// Event names a Model notification.
type Event string

// Events emitted by Model. The int payload is noted where it carries a value.
const (
	EventPreStart              Event = "model.pre-start"
	EventStart                 Event = "model.start"
	EventDecreaseMissingPieces Event = "model.decreaseMissingPieces" // new missing count
	EventIncreaseMissingPieces Event = "model.increaseMissingPieces" // new missing count
	EventSetWrongPieces        Event = "model.setWrongPieces"        // new wrong count
	EventUpdateTips            Event = "model.updateTips"            // tips left
	EventPauseGame             Event = "model.pauseGame"
	EventResumeGame            Event = "model.resumeGame"
	EventWrongSequence         Event = "model.wrongSequence"
	EventToggleAudio           Event = "model.toggleAudio" // 1 when audio is now on
	EventGameOver              Event = "model.gameOver"
	EventWinner                Event = "model.winnerUSER"
)

// State is the Model's phase.
type State int

const (
	StateNotStarted State = iota
	StatePreStart
	StateRunning
	StatePaused
	StateGameOver
	StateWon
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StatePreStart:
		return "pre_start"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	case StateWon:
		return "won"
	default:
		return "unknown"
	}
}

// PauseReason names something that holds the game paused. Reasons stack: the
// game resumes only once every reason has been released.
type PauseReason uint8

const (
	PauseForTip PauseReason = 1 << iota
	PauseForModal
)

// Model tracks one game session.
type Model struct {
	events   *emitter.Emitter[Event, int]
	settings Settings
	level    Level

	started bool
	running bool
	paused  bool
	over    bool
	won     bool
	audio   bool
	holds   PauseReason

	missing int
	wrong   int
}

// New builds a model on the first (easiest) level of settings.
func New(settings Settings) *Model {
	settings = settings.Validate().Clone()
	return &Model{
		events:   emitter.New[Event, int](),
		settings: settings,
		level:    settings.Levels[0],
		audio:    true,
		missing:  len(settings.Pieces),
	}
}

// On subscribes fn to event. Events without a payload pass 0.
func (m *Model) On(event Event, fn func(int)) emitter.Handle {
	return m.events.On(event, fn)
}

// Once subscribes fn to the next occurrence of event only.
func (m *Model) Once(event Event, fn func(int)) emitter.Handle {
	return m.events.Once(event, fn)
}

// RemoveListener cancels a subscription made with On or Once.
func (m *Model) RemoveListener(event Event, h emitter.Handle) {
	m.events.RemoveListener(event, h)
}

// PreStart locks in the level and announces the countdown. Only the first call counts.
func (m *Model) PreStart() {
	if m.started {
		return
	}
	m.started = true
	m.events.Emit(EventPreStart, 0)
}

// Start opens the board once the countdown has finished.
func (m *Model) Start() {
	if !m.started || m.running || m.over || m.won {
		return
	}
	m.running = true
	m.events.Emit(EventStart, 0)
}

// PauseGame asks timers and views to suspend.
func (m *Model) PauseGame() {
	m.paused = true
	m.events.Emit(EventPauseGame, 0)
}

// ResumeGame asks timers and views to continue. It drops every pause reason.
func (m *Model) ResumeGame() {
	m.holds = 0
	m.paused = false
	m.events.Emit(EventResumeGame, 0)
}

// Hold pauses the game for reason. A game already paused is not paused again.
func (m *Model) Hold(reason PauseReason) {
	m.holds |= reason
	if !m.paused {
		m.PauseGame()
	}
}

// Release drops reason and resumes the game when nothing else holds it.
func (m *Model) Release(reason PauseReason) {
	if m.holds&reason == 0 {
		return
	}
	m.holds &^= reason
	if m.holds == 0 && m.paused {
		m.ResumeGame()
	}
}

// IsHeld reports whether reason currently holds the game paused.
func (m *Model) IsHeld(reason PauseReason) bool { return m.holds&reason != 0 }

// DecreaseMissingPieces records one more piece placed on the board and checks
// whether the board is complete.
func (m *Model) DecreaseMissingPieces() {
	if m.missing == 0 {
		return
	}
	m.missing--
	m.events.Emit(EventDecreaseMissingPieces, m.missing)

	if m.missing != 0 {
		return
	}
	if m.wrong == 0 {
		if m.won {
			return
		}
		m.won = true
		m.events.Emit(EventWinner, m.missing)
		return
	}
	m.events.Emit(EventWrongSequence, 0)
}

// IncreaseMissingPieces records one piece taken back off the board.
func (m *Model) IncreaseMissingPieces() {
	if m.missing >= len(m.settings.Pieces) {
		return
	}
	m.missing++
	m.events.Emit(EventIncreaseMissingPieces, m.missing)
}

// SetWrongPieces replaces the count of misplaced pieces. Callers recount the
// whole board on every move. The value is clamped to the number of pieces.
func (m *Model) SetWrongPieces(value int) {
	if value < 0 {
		value = 0
	}
	if total := len(m.settings.Pieces); value > total {
		value = total
	}
	m.wrong = value
	m.events.Emit(EventSetWrongPieces, value)
}

// DecreaseTips spends one tip of the current level and pauses the game while it is shown.
func (m *Model) DecreaseTips() {
	if m.level.Tips <= 0 {
		return
	}
	m.level.Tips--
	m.holds |= PauseForTip
	m.paused = true
	m.events.Emit(EventPauseGame, 0)
	m.events.Emit(EventUpdateTips, m.level.Tips)
}

// ToggleAudio flips the audio setting.
func (m *Model) ToggleAudio() {
	m.audio = !m.audio
	v := 0
	if m.audio {
		v = 1
	}
	m.events.Emit(EventToggleAudio, v)
}

// GameOver ends the game. Once the game is over or won, further calls are ignored.
func (m *Model) GameOver() {
	if m.over || m.won {
		return
	}
	m.over = true
	m.events.Emit(EventGameOver, 0)
}

// SetGameLevel selects a level by id before the game starts. Unknown ids select the first level.
func (m *Model) SetGameLevel(id int) {
	if m.started {
		return
	}
	for _, level := range m.settings.Levels {
		if level.ID == id {
			m.level = level
			return
		}
	}
	m.level = m.settings.Levels[0]
}

// GameLevel returns the current level, including the tips left.
func (m *Model) GameLevel() Level { return m.level }

// Levels returns the configured levels.
func (m *Model) Levels() []Level {
	return append([]Level(nil), m.settings.Levels...)
}

// AllPieces returns the pieces in board order.
func (m *Model) AllPieces() []Piece {
	out := make([]Piece, len(m.settings.Pieces))
	for i, p := range m.settings.Pieces {
		out[i] = append(Piece(nil), p...)
	}
	return out
}

// TotalPieces returns the number of pieces.
func (m *Model) TotalPieces() int { return len(m.settings.Pieces) }

// Setting looks up a settings section by name: "audio", "levels" or "pieces".
func (m *Model) Setting(name string) (any, bool) {
	switch name {
	case "audio":
		return m.settings.Audio, true
	case "levels":
		return m.Levels(), true
	case "pieces":
		return m.AllPieces(), true
	default:
		return nil, false
	}
}

// Audio returns the sound asset paths.
func (m *Model) Audio() Audio { return m.settings.Audio }

// CountDownTime is how long the pre-start countdown lasts.
func (m *Model) CountDownTime() time.Duration { return m.settings.CountDown }

// CountDownWrongPiecesTime is how long the wrong-sequence warning is shown.
func (m *Model) CountDownWrongPiecesTime() time.Duration { return m.settings.CountDownWrongPieces }

// TipsTime is how long the solved image stays visible after a tip.
func (m *Model) TipsTime() time.Duration { return m.settings.TipsTime }

func (m *Model) IsStarted() bool { return m.started }
func (m *Model) IsPaused() bool { return m.paused }
func (m *Model) IsGameOver() bool { return m.over }
func (m *Model) IsWon() bool { return m.won }
func (m *Model) AudioEnabled() bool { return m.audio }
func (m *Model) MissingPieces() int { return m.missing }
func (m *Model) WrongPieces() int { return m.wrong }

// State derives the current phase from the model's flags.
func (m *Model) State() State {
	switch {
	case m.won:
		return StateWon
	case m.over:
		return StateGameOver
	case !m.started:
		return StateNotStarted
	case !m.running:
		return StatePreStart
	case m.paused:
		return StatePaused
	default:
		return StateRunning
	}
}
