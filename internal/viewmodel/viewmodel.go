package viewmodel

import "strconv"

// Regions published to a Notifier when their snapshot changes.
const (
	RegionSplash = "splash"
	RegionInfo   = "info"
	RegionPuzzle = "puzzle"
)

// Notifier receives the name of a region whose snapshot changed.
type Notifier interface {
	Publish(region string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(region string)

func (f NotifierFunc) Publish(region string) { f(region) }

// Sound asks the page to play an asset. Seq grows with every new request so a
// re-rendered fragment does not replay an old sound.
type Sound struct {
	Src  string
	Seq  int
	Loop bool
}

// LevelOption is a level choice on the splash screen.
type LevelOption struct {
	ID       int
	Name     string
	Icon     string
	Selected bool
}

// SplashView holds data for the splash fragment.
type SplashView struct {
	GameID      string
	Visible     bool
	Levels      []LevelOption
	Description string
}

// Stats holds the statistics panel.
type Stats struct {
	LevelName     string
	TotalPieces   int
	MissingPieces int
	WrongPieces   string // "-" until the first move
	AvailableTips int
}

// InfoView holds data for the timer and statistics fragment.
type InfoView struct {
	GameID        string
	Visible       bool
	TimeLevel     string // the level's full budget, h:mm:ss
	Clock         string // mm:ss
	Critical      bool   // under one minute
	MinutesRatio  float64
	SecondsRatio  float64
	Stats         Stats
	TipsEnabled   bool
	AudioEnabled  bool
	AudioActive   bool // toggle usable
	ModalRestart  bool
	ModalGameOver bool
	ModalWinner   bool
	WrongSequence string // flash id while the warning is up
	Sound         Sound
}

// Slot is one hexagon on the board.
type Slot struct {
	Index    int
	Expected int
	Piece    int // -1 when empty
}

// Empty reports whether no piece sits in the slot.
func (s Slot) Empty() bool { return s.Piece < 0 }

// PuzzleView holds data for the board fragment.
type PuzzleView struct {
	GameID        string
	Visible       bool
	CountDown     bool
	CountDownLeft int
	Slots         []Slot
	Desk          []int
	DragEnabled   bool
	ImageEnabled  bool
	ShowTip       bool
	Background    bool // background music playing
	Sound         Sound
}

// GamePage holds data for the full page.
type GamePage struct {
	Title  string
	GameID string
	Splash SplashView
	Info   InfoView
	Puzzle PuzzleView
}

func itoa(v int) string { return strconv.Itoa(v) }

// timerPad zero-pads v to two digits.
func timerPad(v int) string {
	if v >= 0 && v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
