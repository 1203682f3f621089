// StoryWeaver - character-driven story generation server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/storyweaver/internal/api"
	"github.com/ashureev/storyweaver/internal/config"
	"github.com/ashureev/storyweaver/internal/generation"
	"github.com/ashureev/storyweaver/internal/identity"
	"github.com/ashureev/storyweaver/internal/middleware"
	"github.com/ashureev/storyweaver/internal/session"
	"github.com/ashureev/storyweaver/internal/store"
	"github.com/ashureev/storyweaver/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize storage.
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	kv := store.NewCached(db, cfg.StoreCacheTTL)
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	if err := kv.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	library := store.NewLibrary(kv)

	// Generation is optional: without a key the endpoints report the missing
	// credential per request.
	var gen generation.Generator
	if cfg.GenerationEnabled() {
		gemini, err := generation.NewGemini(context.Background(), generation.GeminiConfig{
			APIKey:           cfg.Gemini.APIKey,
			SceneModel:       cfg.Gemini.SceneModel,
			ImageModel:       cfg.Gemini.ImageModel,
			SceneTemperature: float32(cfg.Gemini.SceneTemperature),
			SceneMaxTokens:   int32(cfg.Gemini.SceneMaxTokens),
			ImageTemperature: float32(cfg.Gemini.ImageTemperature),
			RateInterval:     cfg.Gemini.RateInterval,
			RateBurst:        cfg.Gemini.RateBurst,
		})
		if err != nil {
			slog.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		gen = gemini
		slog.Info("Generation enabled", "scene_model", cfg.Gemini.SceneModel, "image_model", cfg.Gemini.ImageModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set, generation endpoints will report a configuration error")
	}

	orch := session.NewOrchestrator(library, gen)

	// Initialize handlers.
	apiHandler := api.NewHandler(library, orch, gen, cfg.RequestTimeout)
	pages, err := web.NewPages(library, orch, cfg.RequestTimeout)
	if err != nil {
		slog.Error("Failed to initialize pages", "error", err)
		os.Exit(1)
	}

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	apiHandler.RegisterRoutes(r)
	pages.RegisterRoutes(r)

	// Generation requests can take a while; WriteTimeout leaves room past the
	// upstream request timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
