package components

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"

	"bovpuzzle/internal/viewmodel"
)

// Splash renders the level picker.
func Splash(v viewmodel.SplashView) templ.Component {
	return component(func(b *bytes.Buffer) {
		b.WriteString(`<section class="splash box"` + hidden(v.Visible) + `>`)
		if !v.Visible {
			b.WriteString(`</section>`)
			return
		}
		b.WriteString(`<h1 class="title">Hexagon puzzle</h1>`)
		b.WriteString(`<form class="splash-form" data-action="/game/` + esc(v.GameID) + `/start">`)
		b.WriteString(`<div class="buttons">`)
		for _, level := range v.Levels {
			class := "button level"
			if level.Selected {
				class += " is-primary"
			}
			b.WriteString(`<button type="button" class="` + class + `" data-level="` + strconv.Itoa(level.ID) + `">`)
			b.WriteString(`<i class="` + esc(level.Icon) + `"></i> ` + esc(level.Name) + `</button>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`<p class="description">` + esc(v.Description) + `</p>`)
		b.WriteString(`<button type="submit" class="button is-success">Start</button>`)
		b.WriteString(`</form></section>`)
	})
}
