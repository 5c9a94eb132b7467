package components

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"

	"bovpuzzle/internal/viewmodel"
)

// Puzzle renders the board, the desk and the countdown.
func Puzzle(v viewmodel.PuzzleView) templ.Component {
	return component(func(b *bytes.Buffer) {
		class := "puzzle"
		if v.DragEnabled {
			class += " is-playing"
		}
		if v.ImageEnabled {
			class += " show-image"
		}
		b.WriteString(`<section class="` + class + `" data-game="` + esc(v.GameID) + `"` + hidden(v.Visible) + `>`)
		if !v.Visible {
			b.WriteString(`</section>`)
			return
		}
		if v.CountDown {
			b.WriteString(`<div class="countdown">` + strconv.Itoa(v.CountDownLeft) + `</div>`)
		}
		if v.ShowTip {
			b.WriteString(`<div class="tip-preview"></div>`)
		}

		drag := "false"
		if v.DragEnabled {
			drag = "true"
		}
		b.WriteString(`<div class="board">`)
		for _, slot := range v.Slots {
			b.WriteString(`<div class="hexagon slot" data-slot="` + strconv.Itoa(slot.Index) + `">`)
			if !slot.Empty() {
				piece(b, slot.Piece, drag)
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)

		b.WriteString(`<div class="desk">`)
		for _, id := range v.Desk {
			piece(b, id, drag)
		}
		b.WriteString(`</div>`)

		if v.Background {
			b.WriteString(`<span class="background-music" data-playing="true"></span>`)
		}
		sound(b, viewmodel.RegionPuzzle, v.Sound)
		b.WriteString(`</section>`)
	})
}

func piece(b *bytes.Buffer, id int, drag string) {
	s := strconv.Itoa(id)
	b.WriteString(`<img class="piece" src="/static/pieces/` + s + `.png" alt="` + s + `" data-piece="` + s + `" draggable="` + drag + `">`)
}
