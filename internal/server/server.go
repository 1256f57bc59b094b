// Package server is the composition root: it wires the database, services,
// handlers and middleware into a chi router and owns the HTTP lifecycle.
//
// Dependency chain assembled here:
//
//	sqlite.DB → SnippetService/UserService/AuthService → handlers → routes
//
// Each layer receives only what it needs — services get repository
// interfaces, handlers get services, nothing below the handler sees HTTP.
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

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/handler"
	"github.com/sakif/snippetbin/internal/highlight"
	"github.com/sakif/snippetbin/internal/middleware"
	sqliteRepo "github.com/sakif/snippetbin/internal/repository/sqlite"
	"github.com/sakif/snippetbin/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// BcryptCost overrides the default hashing cost when positive. Mainly
	// useful for lowering it in development.
	BcryptCost int

	// GitHub OAuth app credentials. Leave empty to run without social
	// login — the /auth/github routes are simply not registered.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency graph wired.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures middleware and the route table.
//
//	GET    /                          → discovery map
//	GET    /healthz                   → liveness
//	GET    /snippets/                 → list (open)
//	POST   /snippets/                 → create (authenticated)
//	GET    /snippets/{id}/            → retrieve (open)
//	PUT    /snippets/{id}/            → full replace (owner only)
//	DELETE /snippets/{id}/            → delete (owner only)
//	GET    /snippets/{id}/highlight/  → rendered HTML (open)
//	GET    /users/                    → list users (open)
//	GET    /users/{id}/               → retrieve user (open)
//	POST   /auth/register, /auth/login, /auth/logout
//	GET    /auth/me, /auth/github/login, /auth/github/callback
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	// The canonical resource paths carry trailing slashes; StripSlashes
	// makes /snippets/ and /snippets route identically.
	s.router.Use(chimiddleware.StripSlashes)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	if s.config.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	}

	renderer := highlight.NewRenderer()
	snippetService := service.NewSnippetService(s.db, renderer, s.logger)
	userService := service.NewUserService(s.db, s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}
	authHandler := handler.NewAuthHandler(authService, github, s.logger)

	s.router.Get("/", handler.HandleRoot)
	s.router.Get("/healthz", handler.HandleHealthz)

	// Resource routes run under the principal-annotating middleware; the
	// service layer decides who may do what. Nothing here returns 401.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Route("/snippets", func(r chi.Router) {
			r.Get("/", snippetHandler.HandleList)
			r.Post("/", snippetHandler.HandleCreate)
			r.Get("/{id}", snippetHandler.HandleGet)
			r.Put("/{id}", snippetHandler.HandleUpdate)
			r.Delete("/{id}", snippetHandler.HandleDelete)
			r.Get("/{id}/highlight", snippetHandler.HandleHighlight)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.HandleList)
			r.Get("/{id}", userHandler.HandleGet)
		})
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	return nil
}

// Handler exposes the router, mainly so tests can drive the full stack with
// httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// budget), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
