// Package timer implements a countdown clock that ticks on a realtime.Scheduler
// and reports through per-instance listeners.
//
// A Timer is not safe for concurrent use. It is meant to live on a single
// realtime.Loop together with the code that drives and observes it.
package timer

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"bovpuzzle/pkg/emitter"
	"bovpuzzle/pkg/realtime"
)

// State is the lifecycle position of a Timer.
type State int

const (
	StateCreated State = iota
	StateRunning
	StatePaused
	StateElapsed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateElapsed:
		return "elapsed"
	default:
		return "unknown"
	}
}

type kind int

const (
	kindTick kind = iota
	kindElapsed
)

// Tick is reported on every count with the time as it was before the step was subtracted.
type Tick struct {
	TimerID uuid.UUID
	Clock   string // h:mm:ss
	Hours   int
	Minutes int
	Seconds int
}

// PaddedMinutes returns Minutes zero-padded to two digits.
func (t Tick) PaddedMinutes() string { return pad(t.Minutes, true) }

// PaddedSeconds returns Seconds zero-padded to two digits.
func (t Tick) PaddedSeconds() string { return pad(t.Seconds, true) }

// Timer counts down from an initial number of seconds.
type Timer struct {
	id      uuid.UUID
	sched   realtime.Scheduler
	events  *emitter.Emitter[kind, Tick]
	time    int
	step    int
	state   State
	started bool
	cancel  func()
	initial string
}

// New creates a stopped timer. A step below one second is raised to one.
func New(seconds, step int, sched realtime.Scheduler) *Timer {
	if step < 1 {
		step = 1
	}
	t := &Timer{
		id:     uuid.New(),
		sched:  sched,
		events: emitter.New[kind, Tick](),
		time:   seconds,
		step:   step,
		state:  StateCreated,
	}
	t.initial = t.CurrentTime()
	return t
}

// FromDuration converts d to whole seconds, rounding down.
func FromDuration(d time.Duration) int {
	return int(d / time.Second)
}

// ID returns the timer's unique identifier.
func (t *Timer) ID() uuid.UUID { return t.id }

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// IsStarted reports whether Start has been called.
func (t *Timer) IsStarted() bool { return t.started }

// IsPaused reports whether the timer is not currently counting.
func (t *Timer) IsPaused() bool { return t.state != StateRunning }

// Time returns the remaining seconds. It goes negative once the timer elapses.
func (t *Timer) Time() int { return t.time }

// Step returns the seconds subtracted per tick.
func (t *Timer) Step() int { return t.step }

// OnTick registers fn for every tick.
func (t *Timer) OnTick(fn func(Tick)) emitter.Handle {
	return t.events.On(kindTick, fn)
}

// OnElapsed registers fn for the elapsed notification.
func (t *Timer) OnElapsed(fn func()) emitter.Handle {
	return t.events.On(kindElapsed, func(Tick) { fn() })
}

// OnceElapsed registers fn for the elapsed notification and drops it after the first call.
func (t *Timer) OnceElapsed(fn func()) emitter.Handle {
	return t.events.Once(kindElapsed, func(Tick) { fn() })
}

// RemoveTickListener drops a registration made with OnTick.
func (t *Timer) RemoveTickListener(h emitter.Handle) {
	t.events.RemoveListener(kindTick, h)
}

// RemoveElapsedListener drops a registration made with OnElapsed or OnceElapsed.
func (t *Timer) RemoveElapsedListener(h emitter.Handle) {
	t.events.RemoveListener(kindElapsed, h)
}

// Start begins counting. It has no effect on a running or elapsed timer.
func (t *Timer) Start() {
	if t.state == StateElapsed {
		return
	}
	t.started = true
	if t.state == StateCreated {
		t.state = StatePaused
	}
	t.Resume()
}

// Resume restarts counting after Pause. It only acts on a paused timer with time left.
func (t *Timer) Resume() {
	if t.state != StatePaused || t.time <= 0 {
		return
	}
	t.state = StateRunning
	t.cancel = t.sched.Every(time.Duration(t.step)*time.Second, t.count)
}

// Pause stops counting and keeps the remaining time.
func (t *Timer) Pause() {
	if t.state != StateRunning {
		return
	}
	t.state = StatePaused
	t.stopSchedule()
}

// SetTime replaces the remaining time and step. Timers that were never started
// are left untouched so a configured countdown cannot be reset before it runs.
func (t *Timer) SetTime(seconds, step int) {
	if !t.started {
		return
	}
	if step < 1 {
		step = 1
	}
	t.time = seconds
	t.step = step
}

func (t *Timer) count() {
	if t.state != StateRunning {
		return
	}
	t.events.Emit(kindTick, t.tick())

	t.time -= t.step
	if t.time < 0 {
		t.stopSchedule()
		t.state = StateElapsed
		t.events.Emit(kindElapsed, Tick{TimerID: t.id})
	}
}

func (t *Timer) stopSchedule() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Timer) tick() Tick {
	return Tick{
		TimerID: t.id,
		Clock:   t.CurrentTime(),
		Hours:   t.Hours(),
		Minutes: t.Minutes(),
		Seconds: t.Seconds(),
	}
}

// Hours returns the whole hours in the remaining time.
func (t *Timer) Hours() int {
	return floorDiv(t.time, 3600)
}

// Minutes returns the whole minutes left after removing the hours.
func (t *Timer) Minutes() int {
	return floorDiv(t.time-t.Hours()*3600, 60)
}

// Seconds returns the seconds left after removing hours and minutes.
func (t *Timer) Seconds() int {
	return t.time - t.Hours()*3600 - t.Minutes()*60
}

// FormatMinutes renders Minutes, zero-padded to two digits when padded is set.
func (t *Timer) FormatMinutes(padded bool) string { return pad(t.Minutes(), padded) }

// FormatSeconds renders Seconds, zero-padded to two digits when padded is set.
func (t *Timer) FormatSeconds(padded bool) string { return pad(t.Seconds(), padded) }

// CurrentTime renders the remaining time as h:mm:ss.
func (t *Timer) CurrentTime() string {
	return strconv.Itoa(t.Hours()) + ":" + t.FormatMinutes(true) + ":" + t.FormatSeconds(true)
}

// InitialTime returns CurrentTime as it was when the timer was created.
func (t *Timer) InitialTime() string { return t.initial }

func pad(v int, padded bool) string {
	if padded && v >= 0 && v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
