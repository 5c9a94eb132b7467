package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"bovpuzzle/internal/game"
	"bovpuzzle/internal/log"
	"bovpuzzle/internal/viewmodel"
	"bovpuzzle/pkg/realtime"
	"bovpuzzle/views/components"
	"bovpuzzle/views/pages"
)

const keepAliveInterval = 25 * time.Second

type GameHandler struct {
	store *game.Store
	log   *log.Logger
}

func NewGameHandler(store *game.Store, logger *log.Logger) *GameHandler {
	if logger == nil {
		logger = log.Discard()
	}
	return &GameHandler{store: store, log: logger}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.gamePage)
		r.Get("/stream", h.stream)
		r.Get("/{region}", h.fragment)

		r.Post("/level", h.act(func(r *http.Request, g *game.Game) {
			g.Splash.SetGameLevel(parseInt(r.FormValue("level"), 0))
		}))
		r.Post("/start", h.act(func(_ *http.Request, g *game.Game) { g.Splash.PreStart() }))
		r.Post("/tips", h.act(func(_ *http.Request, g *game.Game) { g.Info.GetTips() }))
		r.Post("/pause", h.act(func(_ *http.Request, g *game.Game) { g.Info.ShowModalRestart() }))
		r.Post("/resume", h.act(func(_ *http.Request, g *game.Game) { g.Info.CloseModal() }))
		r.Post("/audio", h.act(func(_ *http.Request, g *game.Game) { g.Info.ToggleAudio() }))
		r.Post("/drop/board", h.act(func(r *http.Request, g *game.Game) {
			g.Puzzle.DropOnBoard(parseInt(r.FormValue("piece"), -1), parseInt(r.FormValue("slot"), -1))
		}))
		r.Post("/drop/desk", h.act(func(r *http.Request, g *game.Game) {
			g.Puzzle.DropOnDesk(parseInt(r.FormValue("piece"), -1), parseInt(r.FormValue("before"), -1))
		}))
		r.Post("/restart", h.restartGame)
	})
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, err := session.Page(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, pages.GamePage(page))
}

func (h *GameHandler) fragment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	region := chi.URLParam(r, "region")
	if !isRegion(region) {
		http.NotFound(w, r)
		return
	}
	page, err := session.Page(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, regionComponent(region, page))
}

// act runs a user action on the session loop. Actions that do not apply to the
// current phase are ignored by the view-models, so the response is always empty.
func (h *GameHandler) act(fn func(r *http.Request, g *game.Game)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.store.Get(chi.URLParam(r, "id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := session.Do(r.Context(), func(g *game.Game) { fn(r, g) }); err != nil {
			h.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// restartGame drops the session and sends the player to a fresh one.
func (h *GameHandler) restartGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	session, ok := h.store.Get(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := session.Do(r.Context(), func(g *game.Game) { g.Info.RestartGame() }); err != nil {
		h.log.Debugf("restart %s: %v", gameID, err)
	}
	h.store.Close(gameID)
	next := h.store.Create()
	http.Redirect(w, r, "/game/"+next.ID, http.StatusSeeOther)
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	session, ok := h.store.Get(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendSnapshot := func(regions map[string]bool) bool {
		page, err := session.Page(r.Context())
		if err != nil {
			return false
		}
		for _, region := range []string{viewmodel.RegionSplash, viewmodel.RegionInfo, viewmodel.RegionPuzzle} {
			if regions == nil || regions[region] {
				writeSSE(w, region, renderToString(r, regionComponent(region, page)))
			}
		}
		flusher.Flush()
		return true
	}

	if !sendSnapshot(nil) {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				writeSSE(w, "closed", "")
				flusher.Flush()
				return
			}
			regions := map[string]bool{event: true}
			// Collapse whatever else is already queued into one snapshot.
		drain:
			for {
				select {
				case more, open := <-sub:
					if !open {
						break drain
					}
					regions[more] = true
				default:
					break drain
				}
			}
			if !sendSnapshot(regions) {
				return
			}
		case now := <-keepAlive.C:
			session.Touch(now)
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, realtime.ErrLoopClosed) {
		http.Error(w, "game closed", http.StatusGone)
		return
	}
	if r.Context().Err() != nil {
		return
	}
	h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "game unavailable", http.StatusServiceUnavailable)
}

func isRegion(region string) bool {
	switch region {
	case viewmodel.RegionSplash, viewmodel.RegionInfo, viewmodel.RegionPuzzle:
		return true
	}
	return false
}

func regionComponent(region string, page viewmodel.GamePage) templ.Component {
	switch region {
	case viewmodel.RegionSplash:
		return components.Splash(page.Splash)
	case viewmodel.RegionInfo:
		return components.Info(page.Info)
	default:
		return components.Puzzle(page.Puzzle)
	}
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}
