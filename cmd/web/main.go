package main

import (
	"context"
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"bovpuzzle/internal/config"
	"bovpuzzle/internal/game"
	"bovpuzzle/internal/handlers"
	"bovpuzzle/internal/log"
)

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// run serves the game until ctx is cancelled or the process is signalled. Open
// sessions are closed before it returns.
func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return errors.Wrap(err, "settings")
	}

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := game.NewStore(settings, cfg.SessionTTL, logger)
	defer store.CloseAll()
	go store.RunSweeper(ctx, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return errors.Wrap(err, "static")
	}

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	homeHandler := handlers.NewHomeHandler(store)
	gameHandler := handlers.NewGameHandler(store, logger)

	homeHandler.RegisterRoutes(r)
	gameHandler.RegisterRoutes(r)

	// The SSE stream is long-lived, so there is no write timeout or request timeout middleware.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.Addr()
	}
	logger.Infof("listening on %s", baseURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	return nil
}

//go:embed static/*
var embeddedStatic embed.FS
