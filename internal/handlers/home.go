package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bovpuzzle/internal/game"
)

type HomeHandler struct {
	store *game.Store
}

func NewHomeHandler(store *game.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.createGame)
	r.Post("/games", h.createGame)
}

// createGame opens a new session and sends the player to its splash screen.
func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	session := h.store.Create()
	http.Redirect(w, r, "/game/"+session.ID, http.StatusSeeOther)
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
