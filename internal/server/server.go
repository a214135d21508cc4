// Package server is the composition root: it opens the store, builds the
// services and the GraphQL schema, and mounts them on a chi router.
//
// DEPENDENCY FLOW:
//
//	config.Config → repository.Store (sqlite or mongo)
//	             → auth.TokenService, auth.PasswordService
//	             → service.AuthService, service.EntryService
//	             → graph.Resolver → graphql.Schema → handler.GraphQLHandler
//
// Nothing below this package knows which store backs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/journal-api/internal/auth"
	"github.com/sakif/journal-api/internal/config"
	"github.com/sakif/journal-api/internal/graph"
	"github.com/sakif/journal-api/internal/handler"
	"github.com/sakif/journal-api/internal/middleware"
	"github.com/sakif/journal-api/internal/repository"
	mongoRepo "github.com/sakif/journal-api/internal/repository/mongo"
	sqliteRepo "github.com/sakif/journal-api/internal/repository/sqlite"
	"github.com/sakif/journal-api/internal/service"
)

const (
	shutdownTimeout = 30 * time.Second
	connectTimeout  = 15 * time.Second
)

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the configured store and wires every layer on top of it.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		store, err := mongoRepo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return store, nil

	default:
		if cfg.DBPath != ":memory:" {
			// Like `mkdir -p`: creates data/ on first run.
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db, nil
	}
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
// POST /graphql       → GraphQL endpoint
// POST /api/graphql   → same handler, kept for existing clients
// GET  /healthz       → liveness
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID, so every later log line can carry it
//  2. RealIP, before anything reads RemoteAddr
//  3. Logger
//  4. Recoverer, inside the logger so a panic is logged as a 500
//  5. CORS answers preflight requests before auth runs
//  6. Gate attaches the caller's identity, if any
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	entryService := service.NewEntryService(s.store, s.logger)

	schema, err := graph.NewSchema(graph.NewResolver(authService, entryService, s.logger))
	if err != nil {
		return err
	}
	gql := handler.NewGraphQLHandler(schema, s.logger)
	gate := auth.NewGate(tokens, s.store, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(gate.Middleware)

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Method(http.MethodPost, "/graphql", gql)
	s.router.Method(http.MethodPost, "/api/graphql", gql)

	return nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store. Start calls it on the way out; callers that
// never Start (tests) call it themselves.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.AppEnv),
			slog.String("store", s.config.StoreDriver),
			slog.String("graphql", fmt.Sprintf("http://localhost:%d/graphql", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
