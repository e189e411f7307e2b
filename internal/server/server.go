// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the database, the token and password
// services, the generation client, the service layer, and the handlers are
// all wired together here, so main.go stays minimal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/caption-studio/internal/auth"
	"github.com/sakif/caption-studio/internal/config"
	"github.com/sakif/caption-studio/internal/generator/openrouter"
	"github.com/sakif/caption-studio/internal/handler"
	"github.com/sakif/caption-studio/internal/middleware"
	sqliteRepo "github.com/sakif/caption-studio/internal/repository/sqlite"
	"github.com/sakif/caption-studio/internal/service"
)

// Server holds the router together with the resources it owns. The database
// connection is closed during graceful shutdown, after in-flight requests
// have drained.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers every route.
//
// Layering: the sqlite.DB satisfies the repository interfaces, the services
// receive those interfaces, and the handlers receive the services. Handlers
// never touch the database directly and services never touch HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// Middleware order matters: RequestID first so the logger can include it,
// Recoverer before the handlers so panics become 500s instead of crashes.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	gen := openrouter.New(openrouter.Config{
		BaseURL: s.config.OpenRouterBaseURL,
		APIKey:  s.config.OpenRouterAPIKey,
		Model:   s.config.OpenRouterModel,
	}, s.logger)

	accountService := service.NewAccountService(s.db, tokens, passwords, s.logger)
	bioService := service.NewBioService(s.db, s.db, gen, s.logger)

	// GitHub login is optional; without a client ID the routes are simply
	// not registered.
	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	accountHandler := handler.NewAccountHandler(accountService, github, s.logger)
	bioHandler := handler.NewBioHandler(bioService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Post("/api/signup", accountHandler.HandleSignup)
	s.router.Post("/api/login", accountHandler.HandleLogin)

	if github != nil {
		s.router.Get("/auth/github/login", accountHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", accountHandler.HandleGitHubCallback)
	}

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/api/generate", bioHandler.HandleGenerate)
		r.Get("/api/history", bioHandler.HandleHistory)
		r.Put("/api/history/{id}", bioHandler.HandleUpdate)
		r.Delete("/api/history/{id}", bioHandler.HandleDelete)
		r.Get("/api/profile", bioHandler.HandleProfile)
	})

	return nil
}

// Start runs the HTTP server and handles graceful shutdown.
//
// On SIGINT or SIGTERM: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the database so the WAL is flushed and
// the file lock released.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
