// Package components renders the page regions that the SSE stream swaps in place.
package components

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"bovpuzzle/internal/viewmodel"
)

func component(build func(b *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		build(&b)
		_, err := w.Write(b.Bytes())
		return err
	})
}

func esc(s string) string { return templ.EscapeString(s) }

func hidden(visible bool) string {
	if visible {
		return ""
	}
	return ` hidden`
}

func sound(b *bytes.Buffer, region string, s viewmodel.Sound) {
	if s.Src == "" {
		return
	}
	b.WriteString(`<audio class="cue" data-region="` + region + `" data-seq="` + strconv.Itoa(s.Seq) + `" src="` + esc(s.Src) + `"`)
	if s.Loop {
		b.WriteString(` loop`)
	}
	b.WriteString(`></audio>`)
}
