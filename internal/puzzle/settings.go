package puzzle

import "time"

// Level is a difficulty configuration.
type Level struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Minutes int    `yaml:"time"` // time budget
	Tips    int    `yaml:"tips"`
	Icon    string `yaml:"icon"`
}

// Duration returns the level's time budget.
func (l Level) Duration() time.Duration {
	return time.Duration(l.Minutes) * time.Minute
}

// Piece is one draggable piece. Composite pieces carry more than one part id;
// the first part identifies the piece on the board and the desk.
type Piece []int

// ID returns the identifying part of the piece, or -1 for an empty piece.
func (p Piece) ID() int {
	if len(p) == 0 {
		return -1
	}
	return p[0]
}

// Audio names the sound assets the client plays for each cue.
type Audio struct {
	Background string `yaml:"background"`
	Swap       string `yaml:"swap"`
	Broken     string `yaml:"broken"`
	CountDown  string `yaml:"countDown"`
	Clapping   string `yaml:"clapping"`
	Fail       string `yaml:"fail"`
}

// Settings is the static configuration a Model is built from.
type Settings struct {
	Audio                Audio
	Levels               []Level
	Pieces               []Piece
	CountDown            time.Duration // before the pieces fall
	CountDownWrongPieces time.Duration // wrong-sequence flash
	TipsTime             time.Duration // solved-image preview
}

// DefaultSettings returns the stock game: 41 hexagon pieces and three levels.
func DefaultSettings() Settings {
	return Settings{
		Audio: Audio{
			Background: "/assets/sounds/magic_clock.mp3",
			Swap:       "/assets/sounds/swap_sound.mp3",
			Broken:     "/assets/sounds/broken_glass.mp3",
			CountDown:  "/assets/sounds/countdown_Timer_5_sec.mp3",
			Clapping:   "/assets/sounds/clapping.mp3",
			Fail:       "/assets/sounds/fail_effect.mp3",
		},
		Levels: []Level{
			{ID: 0, Name: "easy", Minutes: 7, Icon: "fa fa-star-o", Tips: 3},
			{ID: 1, Name: "medium", Minutes: 5, Icon: "fa fa-star-half-o", Tips: 2},
			{ID: 2, Name: "hard", Minutes: 3, Icon: "fa fa-star", Tips: 1},
		},
		Pieces: []Piece{
			{45}, {41}, {37}, {33}, {29}, {43}, {39}, {35}, {31}, {44}, {40}, {36},
			{32}, {28}, {42}, {38}, {34}, {30}, {27}, {18}, {14}, {10}, {6}, {25},
			{16}, {12}, {8}, {26}, {17}, {13}, {9}, {5}, {24}, {15}, {11}, {7}, {23},
			{22}, {21}, {20}, {19},
		},
		CountDown:            5 * time.Second,
		CountDownWrongPieces: 1500 * time.Millisecond,
		TipsTime:             5 * time.Second,
	}
}

// Validate fills gaps that would leave a Model unusable. It never fails: a
// settings value without levels or pieces falls back to the defaults for that part.
// A level without a positive time budget takes the budget of the default level at
// the same position. Empty pieces and pieces repeating an earlier id are dropped.
func (s Settings) Validate() Settings {
	def := DefaultSettings()
	if len(s.Levels) == 0 {
		s.Levels = def.Levels
	}
	s.Levels = append([]Level(nil), s.Levels...)
	for idx := range s.Levels {
		if s.Levels[idx].Minutes > 0 {
			continue
		}
		fallback := def.Levels[0]
		if idx < len(def.Levels) {
			fallback = def.Levels[idx]
		}
		s.Levels[idx].Minutes = fallback.Minutes
	}

	seen := make(map[int]bool, len(s.Pieces))
	pieces := make([]Piece, 0, len(s.Pieces))
	for _, p := range s.Pieces {
		if len(p) == 0 || seen[p.ID()] {
			continue
		}
		seen[p.ID()] = true
		pieces = append(pieces, p)
	}
	s.Pieces = pieces
	if len(s.Pieces) == 0 {
		s.Pieces = def.Pieces
	}
	if s.CountDown <= 0 {
		s.CountDown = def.CountDown
	}
	if s.CountDownWrongPieces <= 0 {
		s.CountDownWrongPieces = def.CountDownWrongPieces
	}
	if s.TipsTime <= 0 {
		s.TipsTime = def.TipsTime
	}
	return s
}

// Clone returns a deep copy so Models never share mutable slices.
func (s Settings) Clone() Settings {
	out := s
	out.Levels = append([]Level(nil), s.Levels...)
	out.Pieces = make([]Piece, len(s.Pieces))
	for i, p := range s.Pieces {
		out.Pieces[i] = append(Piece(nil), p...)
	}
	return out
}
