// Package internal provides the main application initialization and runtime logic.
package internal

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
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/api"
	"github.com/nebulahq/nebula/internal/mcpserver"
	"github.com/nebulahq/nebula/internal/notestore"
	"github.com/nebulahq/nebula/internal/sse"
	"github.com/nebulahq/nebula/internal/storage"
)

// newProvider builds the blob storage backend named by the config.
func newProvider(cfg *Config) (storage.Provider, error) {
	switch cfg.Store.Driver {
	case StoreDriverFile:
		return storage.NewFile(cfg.Store.Path)
	case StoreDriverSQLite:
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		return storage.NewSQLite(cfg.Store.Path)
	case StoreDriverMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}

func newSession(cfg *Config, store *notestore.Store, logger *slog.Logger) *ai.Session {
	client := ai.NewClient(
		cfg.AI.APIKey,
		cfg.AI.Model,
		cfg.AI.Endpoint,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)
	gateway := ai.NewGateway(client, logger)
	return ai.NewSession(gateway, store, logger)
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.Bool("ai_configured", cfg.AI.APIKey != ""),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize blob storage.
	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer provider.Close()

	// Load the note collection, seeding a welcome note on first run.
	store, err := notestore.Open(provider, logger)
	if err != nil {
		return fmt.Errorf("open note store: %w", err)
	}

	// SSE broker. Note mutations fan out to connected clients.
	broker := sse.NewBroker(2 * time.Second)
	store.OnChange(func(kind, id string) {
		broker.PublishNoteEvent(kind, id)
	})

	// AI enhancement session.
	session := newSession(cfg, store, logger)

	apiRouter := api.NewRouter(store, session, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the blob file for external edits. Only the file driver has a
	// path another process can touch.
	if cfg.Store.Driver == StoreDriverFile {
		g.Go(func() error {
			if err := notestore.Watch(gCtx, store, provider.Location(), logger); err != nil {
				logger.Warn("file watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdio with the given options. Logs go to
// stderr so stdout stays clean for the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer provider.Close()

	store, err := notestore.Open(provider, logger)
	if err != nil {
		return fmt.Errorf("open note store: %w", err)
	}

	session := newSession(cfg, store, logger)

	logger.Info("Starting MCP server on stdio",
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path))

	srv := mcpserver.New(store, session)
	return srv.ServeStdio()
}
