package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	logger   *slog.Logger
	handlers Handlers
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		handlers: NewHandlers(logger, gameUseCase),
	}
}

// Router - builds the chi router with all routes of the API.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.handlers.Ping)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/hint", that.handlers.Hint)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", that.handlers.CreateGame)
			r.Get("/{id}", that.handlers.GetGame)
			r.Post("/{id}/join", that.handlers.JoinGame)
			r.Post("/{id}/turn", that.handlers.MakeTurn)
		})
	})

	return router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
