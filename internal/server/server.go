// Package server is the composition root: it wires the store, repositories,
// identity provider, services, and handlers together and runs the HTTP
// server with graceful shutdown.
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
	"github.com/go-chi/cors"

	"github.com/findnest/findnest/internal/auth"
	"github.com/findnest/findnest/internal/handler"
	"github.com/findnest/findnest/internal/identity"
	"github.com/findnest/findnest/internal/middleware"
	"github.com/findnest/findnest/internal/repository/kv"
	"github.com/findnest/findnest/internal/service"
	"github.com/findnest/findnest/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port           int
	DBPath         string   // path to the SQLite store file
	JWTSecret      string   // empty disables the auth routes
	AllowedOrigins []string // CORS origins for the browser frontend
}

// Server owns the router and the backing store. The store is closed during
// graceful shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  *store.SQLite
}

// New creates a Server, wiring the full dependency chain:
// store → repositories → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	st, err := store.NewSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  st,
	}

	if err := s.setupRoutes(); err != nil {
		st.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// CORS for the browser frontend. PATCH is in the list: the claim and
	// turnover flows depend on it.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}))

	itemRepo := kv.NewItemRepo(s.store)
	historyRepo := kv.NewHistoryRepo(s.store)
	userRepo := kv.NewUserRepo(s.store)

	passwords := auth.NewPasswordService()
	provider := identity.NewLocal(s.store, passwords, s.logger)

	itemService := service.NewItemService(itemRepo, historyRepo, s.logger)
	userService := service.NewUserService(userRepo, provider, s.logger)

	itemHandler := handler.NewItemHandler(itemService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	s.router.Route("/api/items", func(r chi.Router) {
		r.Post("/save", itemHandler.HandleSave)
		r.Get("/", itemHandler.HandleList)
		r.Get("/count", itemHandler.HandleCount)
		r.Get("/history", itemHandler.HandleHistoryList)
		r.Get("/history/{id}", itemHandler.HandleHistoryGetByID)
		r.Get("/{id}", itemHandler.HandleGetByID)
		r.Put("/{id}", itemHandler.HandleReplace)
		r.Patch("/{id}", itemHandler.HandlePatch)
		r.Patch("/{id}/turnover", itemHandler.HandleTurnover)
		r.Delete("/{id}", itemHandler.HandleDelete)
	})

	s.router.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.HandleCreate)
		r.Get("/", userHandler.HandleList)
		r.Get("/count", userHandler.HandleCount)
		r.Get("/{id}", userHandler.HandleGetByID)
		r.Put("/{id}", userHandler.HandleUpdate)
		r.Delete("/{id}", userHandler.HandleDelete)
		r.Patch("/{id}/profile-picture", userHandler.HandleProfilePicture)
	})

	// Auth routes need a signing secret; without one the data API still
	// serves, matching the original deployment.
	if s.config.JWTSecret != "" {
		tokens, err := auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		authHandler := handler.NewAuthHandler(provider, tokens, userService, s.logger)

		s.router.Route("/api/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})
	} else {
		s.logger.Warn("JWT secret not set, auth routes disabled")
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the store.
func (s *Server) Start() error {
	defer s.store.Close()

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
