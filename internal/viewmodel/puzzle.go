package viewmodel

import (
	"math/rand"
	"time"

	"bovpuzzle/internal/puzzle"
	"bovpuzzle/pkg/realtime"
	"bovpuzzle/pkg/timer"
)

const empty = -1

// Puzzle drives the board: the countdown, the falling pieces, drag and drop and
// the tip preview.
type Puzzle struct {
	model  *puzzle.Model
	sched  realtime.Scheduler
	notify Notifier
	rng    *rand.Rand

	visible       bool
	countDown     *timer.Timer
	countDownLeft int
	slots         []Slot
	desk          []int
	drag          bool
	image         bool
	tip           *timer.Timer
	background    bool

	sound Sound
}

// NewPuzzle binds a puzzle view-model to model. Until the countdown ends the
// board shows every piece in place. A nil rng seeds one from the clock.
func NewPuzzle(model *puzzle.Model, sched realtime.Scheduler, notify Notifier, rng *rand.Rand) *Puzzle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := &Puzzle{model: model, sched: sched, notify: notify, rng: rng}
	for idx, piece := range model.AllPieces() {
		p.slots = append(p.slots, Slot{Index: idx, Expected: piece.ID(), Piece: piece.ID()})
	}
	p.bindEvents()
	return p
}

func (p *Puzzle) bindEvents() {
	p.model.On(puzzle.EventPreStart, func(int) { p.preView() })
	p.model.On(puzzle.EventStart, func(int) { p.enableDragAndDrop() })
	p.model.On(puzzle.EventResumeGame, func(int) { p.enableDragAndDrop() })
	p.model.On(puzzle.EventPauseGame, func(int) { p.disableDragAndDrop() })
	p.model.On(puzzle.EventUpdateTips, func(int) { p.showTip() })
	p.model.On(puzzle.EventToggleAudio, func(int) { p.changed() })
	p.model.On(puzzle.EventGameOver, func(int) { p.disableDragAndDrop() })
	p.model.On(puzzle.EventWinner, func(int) {
		p.disableDragAndDrop()
		p.image = true
		p.changed()
	})
}

func (p *Puzzle) preView() {
	p.visible = true
	p.countDown = timer.New(timer.FromDuration(p.model.CountDownTime()), 1, p.sched)
	p.countDownLeft = p.countDown.Seconds()
	p.countDown.OnTick(func(tick timer.Tick) {
		p.countDownLeft = tick.Seconds
		p.changed()
	})
	p.countDown.OnceElapsed(p.fallingDown)
	p.play(p.model.Audio().CountDown, false)
	p.countDown.Start()
	p.changed()
}

// fallingDown drops the solved pieces off the board and deals them onto the desk.
func (p *Puzzle) fallingDown() {
	p.countDown = nil
	p.play(p.model.Audio().Broken, false)
	p.reorganize()
	p.model.Start()
}

func (p *Puzzle) reorganize() {
	p.desk = p.desk[:0]
	for idx := range p.slots {
		p.desk = append(p.desk, p.slots[idx].Expected)
		p.slots[idx].Piece = empty
	}
	p.rng.Shuffle(len(p.desk), func(a, b int) { p.desk[a], p.desk[b] = p.desk[b], p.desk[a] })
	p.changed()
}

func (p *Puzzle) enableDragAndDrop() {
	if p.model.State() != puzzle.StateRunning || p.tip != nil {
		return
	}
	p.drag = true
	p.image = false
	if !p.background {
		p.background = true
		p.play(p.model.Audio().Background, true)
	}
	p.changed()
}

func (p *Puzzle) disableDragAndDrop() {
	p.drag = false
	p.background = false
	p.changed()
}

// showTip reveals the solved image. When the preview ends the tip releases its
// hold on the game; an open modal keeps it paused.
func (p *Puzzle) showTip() {
	if p.tip != nil {
		p.tip.Pause()
	}
	p.image = true
	tip := timer.New(timer.FromDuration(p.model.TipsTime()), 1, p.sched)
	tip.OnceElapsed(func() {
		if p.tip != tip {
			return
		}
		p.tip = nil
		p.image = false
		p.model.Release(puzzle.PauseForTip)
		p.changed()
	})
	p.tip = tip
	tip.Start()
	p.changed()
}

// DropOnBoard moves piece into slot. A piece already there is swapped back to
// where the dragged piece came from.
func (p *Puzzle) DropOnBoard(piece, slot int) {
	if !p.drag || slot < 0 || slot >= len(p.slots) {
		return
	}
	deskAt, slotAt := p.locate(piece)
	if deskAt < 0 && slotAt < 0 {
		return
	}
	if slotAt == slot {
		return
	}
	occupant := p.slots[slot].Piece
	placed := false

	switch {
	case deskAt >= 0 && occupant == empty:
		p.desk = append(p.desk[:deskAt], p.desk[deskAt+1:]...)
		placed = true
	case deskAt >= 0:
		p.desk[deskAt] = occupant
	default:
		p.slots[slotAt].Piece = occupant
	}
	p.slots[slot].Piece = piece
	p.play(p.model.Audio().Swap, false)

	p.model.SetWrongPieces(p.countWrong())
	if placed {
		p.model.DecreaseMissingPieces()
	}
	p.changed()
}

// DropOnDesk moves piece onto the desk in front of the desk piece before, or to
// the end when before is not on the desk.
func (p *Puzzle) DropOnDesk(piece, before int) {
	if !p.drag || piece == before {
		return
	}
	deskAt, slotAt := p.locate(piece)
	switch {
	case deskAt >= 0:
		p.desk = append(p.desk[:deskAt], p.desk[deskAt+1:]...)
	case slotAt >= 0:
		p.slots[slotAt].Piece = empty
	default:
		return
	}

	at := len(p.desk)
	for idx, id := range p.desk {
		if id == before {
			at = idx
			break
		}
	}
	p.desk = append(p.desk, 0)
	copy(p.desk[at+1:], p.desk[at:])
	p.desk[at] = piece
	p.play(p.model.Audio().Swap, false)

	p.model.SetWrongPieces(p.countWrong())
	if slotAt >= 0 {
		p.model.IncreaseMissingPieces()
	}
	p.changed()
}

func (p *Puzzle) locate(piece int) (deskAt, slotAt int) {
	for idx, id := range p.desk {
		if id == piece {
			return idx, -1
		}
	}
	for idx, s := range p.slots {
		if s.Piece == piece {
			return -1, idx
		}
	}
	return -1, -1
}

// countWrong recounts misplaced pieces across the whole board.
func (p *Puzzle) countWrong() int {
	wrong := 0
	for _, s := range p.slots {
		if !s.Empty() && s.Piece != s.Expected {
			wrong++
		}
	}
	return wrong
}

func (p *Puzzle) play(src string, loop bool) {
	if !p.model.AudioEnabled() || src == "" {
		return
	}
	p.sound = Sound{Src: src, Seq: p.sound.Seq + 1, Loop: loop}
}

func (p *Puzzle) changed() { p.notify.Publish(RegionPuzzle) }

// View returns the region snapshot.
func (p *Puzzle) View() PuzzleView {
	return PuzzleView{
		Visible:       p.visible,
		CountDown:     p.countDown != nil,
		CountDownLeft: p.countDownLeft,
		Slots:         append([]Slot(nil), p.slots...),
		Desk:          append([]int(nil), p.desk...),
		DragEnabled:   p.drag,
		ImageEnabled:  p.image,
		ShowTip:       p.tip != nil,
		Background:    p.background && p.model.AudioEnabled(),
		Sound:         p.sound,
	}
}
