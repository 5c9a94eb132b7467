package viewmodel

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bovpuzzle/internal/puzzle"
	"bovpuzzle/pkg/realtime"
)

type regions map[string]int

func (r regions) Publish(region string) { r[region]++ }

type fixture struct {
	model  *puzzle.Model
	sched  *realtime.ManualScheduler
	seen   regions
	splash *Splash
	info   *Info
	board  *Puzzle
}

func newFixture(t *testing.T, pieces int) *fixture {
	t.Helper()
	settings := puzzle.DefaultSettings()
	if pieces > 0 {
		settings.Pieces = settings.Pieces[:pieces]
	}
	f := &fixture{
		model: puzzle.New(settings),
		sched: realtime.NewManualScheduler(),
		seen:  regions{},
	}
	f.splash = NewSplash(f.model, f.seen)
	f.info = NewInfo(f.model, f.sched, f.seen)
	f.board = NewPuzzle(f.model, f.sched, f.seen, rand.New(rand.NewSource(1)))
	return f
}

// play selects level, submits the splash and waits out the countdown.
func (f *fixture) play(t *testing.T, level int) {
	t.Helper()
	f.splash.SetGameLevel(level)
	f.splash.PreStart()
	f.sched.Advance(6 * time.Second)
	require.Equal(t, puzzle.StateRunning, f.model.State())
}

func slotOf(v PuzzleView, expected int) int {
	for _, s := range v.Slots {
		if s.Expected == expected {
			return s.Index
		}
	}
	return -1
}

func TestSplash_SelectLevel(t *testing.T) {
	f := newFixture(t, 0)

	f.splash.SetGameLevel(2)
	v := f.splash.View()

	assert.True(t, v.Visible)
	assert.Equal(t, "Maximum time for completing: 3 minutes", v.Description)
	require.Len(t, v.Levels, 3)
	assert.True(t, v.Levels[2].Selected)
	assert.False(t, v.Levels[0].Selected)
	assert.Equal(t, "fa fa-star", v.Levels[2].Icon)
	assert.Equal(t, 1, f.seen[RegionSplash])
}

func TestSplash_ClosesOnPreStart(t *testing.T) {
	f := newFixture(t, 0)
	f.splash.SetGameLevel(1)

	f.splash.PreStart()
	f.splash.SetGameLevel(2)

	assert.False(t, f.splash.View().Visible)
	assert.Equal(t, "medium", f.model.GameLevel().Name)
}

func TestPuzzle_CountDownDealsPieces(t *testing.T) {
	f := newFixture(t, 0)
	f.splash.PreStart()

	v := f.board.View()
	require.True(t, v.Visible)
	assert.True(t, v.CountDown)
	assert.Equal(t, 5, v.CountDownLeft)
	assert.Empty(t, v.Desk)
	for _, s := range v.Slots {
		assert.Equal(t, s.Expected, s.Piece, "solved image before the countdown ends")
	}
	assert.False(t, v.DragEnabled)

	f.sched.Advance(3 * time.Second)
	assert.Equal(t, 3, f.board.View().CountDownLeft)
	assert.Equal(t, puzzle.StatePreStart, f.model.State())

	f.sched.Advance(3 * time.Second)
	v = f.board.View()
	assert.False(t, v.CountDown)
	assert.Len(t, v.Desk, 41)
	for _, s := range v.Slots {
		assert.True(t, s.Empty())
	}
	assert.True(t, v.DragEnabled)
	assert.True(t, v.Background)
	assert.Equal(t, puzzle.StateRunning, f.model.State())
}

func TestPuzzle_DropBeforeStartIgnored(t *testing.T) {
	f := newFixture(t, 3)
	f.splash.PreStart()

	f.board.DropOnBoard(45, 1)
	f.board.DropOnDesk(45, -1)

	assert.Equal(t, 3, f.model.MissingPieces())
}

func TestInfo_ClockCountsDown(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 2)

	v := f.info.View()
	require.True(t, v.Visible)
	assert.Equal(t, "0:03:00", v.TimeLevel)
	assert.Equal(t, "03:00", v.Clock)
	assert.True(t, v.TipsEnabled)

	f.sched.Advance(2 * time.Second)
	v = f.info.View()
	assert.Equal(t, "02:59", v.Clock)
	assert.False(t, v.Critical)

	f.sched.Advance(2 * time.Minute)
	v = f.info.View()
	assert.Equal(t, "00:59", v.Clock)
	assert.True(t, v.Critical)
}

func TestInfo_TimeUpIsGameOver(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 2)

	f.sched.Advance(3*time.Minute + 5*time.Second)

	assert.True(t, f.model.IsGameOver())
	v := f.info.View()
	assert.True(t, v.ModalGameOver)
	assert.False(t, v.TipsEnabled)
	assert.Equal(t, "/assets/sounds/fail.mp3", v.Sound.Src)
	assert.False(t, f.board.View().DragEnabled)
	assert.Equal(t, 0, f.sched.Active())
}

func TestPuzzle_SolveWins(t *testing.T) {
	f := newFixture(t, 3)
	f.play(t, 0)

	for _, id := range f.board.View().Desk {
		f.board.DropOnBoard(id, slotOf(f.board.View(), id))
	}

	assert.True(t, f.model.IsWon())
	assert.Equal(t, 0, f.model.MissingPieces())
	v := f.board.View()
	assert.Empty(t, v.Desk)
	assert.False(t, v.DragEnabled)
	assert.True(t, v.ImageEnabled)
	assert.True(t, f.info.View().ModalWinner)
	assert.Equal(t, "/assets/sounds/clapping.mp3", f.info.View().Sound.Src)
}

func TestPuzzle_WrongSequenceThenFix(t *testing.T) {
	f := newFixture(t, 2)
	f.play(t, 0)

	slots := f.board.View().Slots
	a, b := slots[0].Expected, slots[1].Expected
	f.board.DropOnBoard(a, 1)
	assert.Equal(t, 1, f.model.WrongPieces())
	assert.Equal(t, "1", f.info.View().Stats.WrongPieces)
	f.board.DropOnBoard(b, 0)

	require.False(t, f.model.IsWon())
	assert.NotEmpty(t, f.info.View().WrongSequence)

	f.sched.Advance(2 * time.Second)
	assert.Empty(t, f.info.View().WrongSequence)

	f.board.DropOnDesk(a, -1)
	assert.Equal(t, 1, f.model.MissingPieces())
	f.board.DropOnBoard(b, 1)
	f.board.DropOnBoard(a, 0)

	assert.True(t, f.model.IsWon())
	assert.Equal(t, 0, f.model.WrongPieces())
}

func TestPuzzle_SwapWithDeskPiece(t *testing.T) {
	f := newFixture(t, 3)
	f.play(t, 0)

	slots := f.board.View().Slots
	a, b := slots[0].Expected, slots[1].Expected
	f.board.DropOnBoard(a, 1)
	f.board.DropOnBoard(b, 1)

	v := f.board.View()
	assert.Equal(t, b, v.Slots[1].Piece)
	assert.Contains(t, v.Desk, a)
	assert.Equal(t, 2, f.model.MissingPieces())
	assert.Equal(t, 0, f.model.WrongPieces())
}

func TestPuzzle_DeskReorderKeepsCounts(t *testing.T) {
	f := newFixture(t, 3)
	f.play(t, 0)
	desk := f.board.View().Desk

	f.board.DropOnDesk(desk[2], desk[0])

	v := f.board.View()
	assert.Equal(t, []int{desk[2], desk[0], desk[1]}, v.Desk)
	assert.Equal(t, 3, f.model.MissingPieces())
}

func TestTips_PreviewPausesThenResumes(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 1)
	f.sched.Advance(time.Second)
	clock := f.info.View().Clock

	f.info.GetTips()
	assert.True(t, f.model.IsPaused())
	assert.True(t, f.board.View().ShowTip)
	assert.True(t, f.board.View().ImageEnabled)
	assert.False(t, f.board.View().DragEnabled)
	assert.Equal(t, 1, f.info.View().Stats.AvailableTips)

	f.sched.Advance(3 * time.Second)
	assert.Equal(t, clock, f.info.View().Clock, "clock holds during the preview")

	f.sched.Advance(3 * time.Second)
	assert.False(t, f.model.IsPaused())
	assert.False(t, f.board.View().ShowTip)
	assert.True(t, f.board.View().DragEnabled)
	assert.True(t, f.info.View().TipsEnabled)
}

func TestTips_ExhaustedDisablesButton(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 2)

	f.info.GetTips()
	f.sched.Advance(6 * time.Second)

	assert.Equal(t, 0, f.model.GameLevel().Tips)
	assert.False(t, f.info.View().TipsEnabled)
	f.info.GetTips()
	assert.False(t, f.model.IsPaused())
}

func TestInfo_RestartModal(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 0)

	f.info.ShowModalRestart()
	assert.True(t, f.info.View().ModalRestart)
	assert.True(t, f.model.IsPaused())
	assert.False(t, f.board.View().DragEnabled)

	f.info.CloseModal()
	assert.False(t, f.info.View().ModalRestart)
	assert.False(t, f.model.IsPaused())
	assert.True(t, f.board.View().DragEnabled)

	f.info.ShowModalRestart()
	f.info.RestartGame()
	assert.True(t, f.info.Restarting())
	assert.Equal(t, 0, f.sched.Active())
}

func TestInfo_ModalDuringCountDownKeepsBoardLocked(t *testing.T) {
	f := newFixture(t, 0)
	f.splash.PreStart()
	f.info.ShowModalRestart()

	f.sched.Advance(6 * time.Second)
	assert.Equal(t, puzzle.StatePaused, f.model.State())
	assert.False(t, f.board.View().DragEnabled)
	assert.False(t, f.info.GameTimer().IsStarted())

	f.info.CloseModal()
	assert.True(t, f.board.View().DragEnabled)
	assert.True(t, f.info.GameTimer().IsStarted())
}

func TestInfo_ModalOpenWhenTipPreviewEnds(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 0)
	clock := f.info.View().Clock

	f.info.GetTips()
	f.info.ShowModalRestart()
	f.sched.Advance(9 * time.Second)

	assert.False(t, f.board.View().ShowTip, "preview is over")
	assert.True(t, f.info.View().ModalRestart)
	assert.True(t, f.model.IsPaused(), "modal still holds the game")
	assert.False(t, f.board.View().DragEnabled)
	assert.False(t, f.info.View().TipsEnabled)
	assert.Equal(t, clock, f.info.View().Clock)

	f.info.CloseModal()
	assert.False(t, f.model.IsPaused())
	assert.True(t, f.board.View().DragEnabled)
	assert.True(t, f.info.View().TipsEnabled)
}

func TestInfo_ModalClosedDuringTipPreview(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 0)
	clock := f.info.View().Clock

	f.info.GetTips()
	f.info.ShowModalRestart()
	f.info.CloseModal()
	f.sched.Advance(2 * time.Second)

	assert.True(t, f.board.View().ShowTip)
	assert.True(t, f.model.IsPaused(), "tip still holds the game")
	assert.False(t, f.board.View().DragEnabled)
	assert.False(t, f.info.View().TipsEnabled)
	assert.Equal(t, clock, f.info.View().Clock)

	f.sched.Advance(4 * time.Second)
	assert.False(t, f.board.View().ShowTip)
	assert.False(t, f.model.IsPaused())
	assert.True(t, f.board.View().DragEnabled)
	assert.True(t, f.info.View().TipsEnabled)
}

func TestTips_SecondTipRestartsPreview(t *testing.T) {
	f := newFixture(t, 0)
	f.play(t, 0)
	resumes := 0
	f.model.On(puzzle.EventResumeGame, func(int) { resumes++ })

	f.model.DecreaseTips()
	f.sched.Advance(2 * time.Second)
	f.model.DecreaseTips()

	f.sched.Advance(4 * time.Second)
	assert.True(t, f.board.View().ShowTip, "first preview must not end the second one")
	assert.True(t, f.model.IsPaused())
	assert.False(t, f.board.View().DragEnabled)
	assert.Equal(t, 0, resumes)

	f.sched.Advance(2 * time.Second)
	assert.False(t, f.board.View().ShowTip)
	assert.False(t, f.model.IsPaused())
	assert.True(t, f.board.View().DragEnabled)

	f.sched.Advance(10 * time.Second)
	assert.Equal(t, 1, resumes)
	assert.Equal(t, 1, f.model.GameLevel().Tips)
}

func TestInfo_ToggleAudio(t *testing.T) {
	f := newFixture(t, 0)

	f.info.ToggleAudio()
	assert.True(t, f.model.AudioEnabled(), "ignored before the game starts")

	f.play(t, 0)
	f.info.ToggleAudio()
	assert.False(t, f.info.View().AudioEnabled)
	assert.False(t, f.board.View().Background)

	seq := f.board.View().Sound.Seq
	desk := f.board.View().Desk
	f.board.DropOnDesk(desk[1], desk[0])
	assert.Equal(t, seq, f.board.View().Sound.Seq, "muted games request no sounds")
}
