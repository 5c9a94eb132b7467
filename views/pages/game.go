// Package pages renders full HTML documents.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"bovpuzzle/internal/viewmodel"
	"bovpuzzle/views/components"
)

// GamePage renders the whole game. The regions are refreshed over the SSE stream
// and user actions are posted by /static/app.js.
func GamePage(p viewmodel.GamePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html><head><meta charset="utf-8"><title>` + templ.EscapeString(p.Title) + `</title>` +
			`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bulma@0.9.4/css/bulma.min.css">` +
			`<link rel="stylesheet" href="/static/style.css">` +
			`</head><body class="section" data-game="` + templ.EscapeString(p.GameID) + `"><div class="container">`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		regions := []struct {
			id   string
			part templ.Component
		}{
			{viewmodel.RegionSplash, components.Splash(p.Splash)},
			{viewmodel.RegionInfo, components.Info(p.Info)},
			{viewmodel.RegionPuzzle, components.Puzzle(p.Puzzle)},
		}
		for _, region := range regions {
			if _, err := io.WriteString(w, `<div id="`+region.id+`">`); err != nil {
				return err
			}
			if err := region.part.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div><script src="/static/app.js"></script></body></html>`)
		return err
	})
}
