package components

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"

	"bovpuzzle/internal/viewmodel"
)

// Info renders the clock, statistics and modals.
func Info(v viewmodel.InfoView) templ.Component {
	return component(func(b *bytes.Buffer) {
		b.WriteString(`<section class="info box"` + hidden(v.Visible) + `>`)
		if !v.Visible {
			b.WriteString(`</section>`)
			return
		}
		gid := esc(v.GameID)

		clock := "clock"
		if v.Critical {
			clock += " is-critical"
		}
		b.WriteString(`<div class="` + clock + `" style="--minutes:` + ratio(v.MinutesRatio) + `;--seconds:` + ratio(v.SecondsRatio) + `">`)
		b.WriteString(`<span class="time">` + esc(v.Clock) + `</span>`)
		b.WriteString(`<span class="time-level">` + esc(v.TimeLevel) + `</span></div>`)

		b.WriteString(`<table class="table stats"><tbody>`)
		row(b, "Level", esc(v.Stats.LevelName))
		row(b, "Total pieces", strconv.Itoa(v.Stats.TotalPieces))
		row(b, "Missing pieces", strconv.Itoa(v.Stats.MissingPieces))
		row(b, "Wrong pieces", esc(v.Stats.WrongPieces))
		row(b, "Tips", strconv.Itoa(v.Stats.AvailableTips))
		b.WriteString(`</tbody></table>`)

		b.WriteString(`<div class="buttons">`)
		b.WriteString(`<button type="button" class="button action" data-action="/game/` + gid + `/tips"` + disabled(v.TipsEnabled) + `>Tip</button>`)
		b.WriteString(`<button type="button" class="button action" data-action="/game/` + gid + `/pause"` + disabled(!v.ModalGameOver && !v.ModalWinner) + `>Restart</button>`)
		audio := "Audio off"
		if v.AudioEnabled {
			audio = "Audio on"
		}
		b.WriteString(`<button type="button" class="button action" data-action="/game/` + gid + `/audio"` + disabled(v.AudioActive) + `>` + audio + `</button>`)
		b.WriteString(`</div>`)

		if v.WrongSequence != "" {
			b.WriteString(`<div class="notification is-warning wrong-sequence" data-flash="` + esc(v.WrongSequence) + `">Some pieces are in the wrong place.</div>`)
		}
		if v.ModalRestart {
			modal(b, "Restart the game?", `<button type="button" class="button is-danger action" data-action="/game/`+gid+`/restart" data-navigate="true">Restart</button>`+
				`<button type="button" class="button action" data-action="/game/`+gid+`/resume">Continue</button>`)
		}
		if v.ModalGameOver {
			modal(b, "Time is up!", `<button type="button" class="button is-primary action" data-action="/game/`+gid+`/restart" data-navigate="true">Try again</button>`)
		}
		if v.ModalWinner {
			modal(b, "You solved the puzzle!", `<button type="button" class="button is-primary action" data-action="/game/`+gid+`/restart" data-navigate="true">Play again</button>`)
		}
		sound(b, viewmodel.RegionInfo, v.Sound)
		b.WriteString(`</section>`)
	})
}

func row(b *bytes.Buffer, label, value string) {
	b.WriteString(`<tr><th>` + label + `</th><td>` + value + `</td></tr>`)
}

func modal(b *bytes.Buffer, title, actions string) {
	b.WriteString(`<div class="modal is-active"><div class="modal-background"></div><div class="modal-content box">`)
	b.WriteString(`<p class="title is-4">` + title + `</p><div class="buttons">` + actions + `</div></div></div>`)
}

func disabled(enabled bool) string {
	if enabled {
		return ""
	}
	return ` disabled`
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
