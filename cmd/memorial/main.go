// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command memorial runs the memorial site API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/quietgrove/memorial-go/internal/auth"
	"github.com/quietgrove/memorial-go/internal/cache"
	"github.com/quietgrove/memorial-go/internal/config"
	"github.com/quietgrove/memorial-go/internal/handler/api"
	"github.com/quietgrove/memorial-go/internal/logging"
	"github.com/quietgrove/memorial-go/internal/middleware"
	"github.com/quietgrove/memorial-go/internal/service"
	"github.com/quietgrove/memorial-go/internal/store"
	"github.com/quietgrove/memorial-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.BoolVar(showVersion, "v", false, "Print version information and exit (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: memorial [options]\n\nOptions:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_TOKEN_SECRET    Admin token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_DB_PATH         SQLite database path (default: ./data/memorial.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_UPLOADS_DIR     Photo upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_REDIS_URL       Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MEMORIAL_ENV             Environment: development|production (default: development)\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("memorial %s\n", info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure the data and upload directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed the initial admin account
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Initialize cache: Redis when configured, in-memory otherwise
	appCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "redis", cfg.UseRedisCache())

	// Token manager for admin bearer tokens
	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenIssuer,
		time.Duration(cfg.TokenTTL)*time.Minute)

	// Login protection: per-IP throttling plus account lockout
	loginProtection := middleware.NewLoginProtection()
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Services
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	tributeService := service.NewTributeService(db)
	galleryService := service.NewGalleryService(db, cfg.UploadsDir)
	timelineService := service.NewTimelineService(db, appCache, cacheTTL)
	dashboardService := service.NewDashboardService(db, appCache, cacheTTL)
	adminService := service.NewAdminService(db, tokens)

	apiHandler := api.NewHandler(tributeService, galleryService, timelineService,
		dashboardService, adminService, loginProtection)
	healthHandler := api.NewHealthHandler(db, versionInfo)

	// Create router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check (public)
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/tributes", apiHandler.ListTributes)
		r.Post("/tributes", apiHandler.CreateTribute)
		r.Post("/tributes/{id}/like", apiHandler.LikeTribute)
		r.Get("/gallery", apiHandler.ListGallery)
		r.Post("/gallery/submissions", apiHandler.SubmitPhoto)
		r.With(middleware.AdminAuth(tokens)).Patch("/gallery/submissions/{id}", apiHandler.ReviewSubmission)
		r.Get("/timeline", apiHandler.ListTimeline)

		r.Route("/admin", func(r chi.Router) {
			r.With(loginProtection.Middleware()).Post("/login", apiHandler.Login)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(tokens))

				r.Get("/tributes", apiHandler.ListAdminTributes)
				r.Patch("/tributes/{id}/approve", apiHandler.ApproveTribute)
				r.Patch("/tributes/{id}/reject", apiHandler.RejectTribute)
				r.Patch("/tributes/{id}/feature", apiHandler.FeatureTribute)

				r.Get("/gallery", apiHandler.ListAdminGallery)
				r.Patch("/gallery/{id}", apiHandler.UpdatePhoto)
				r.Delete("/gallery/{id}", apiHandler.DeletePhoto)
				r.Get("/gallery/submissions", apiHandler.ListSubmissions)
				r.Delete("/gallery/submissions/{id}", apiHandler.DeleteSubmission)

				r.Get("/timeline", apiHandler.ListAdminTimeline)
				r.Post("/timeline", apiHandler.CreateTimelineEvent)
				r.Patch("/timeline/{id}", apiHandler.UpdateTimelineEvent)
				r.Patch("/timeline/{id}/visibility", apiHandler.SetTimelineEventVisibility)
				r.Delete("/timeline/{id}", apiHandler.DeleteTimelineEvent)

				r.Get("/dashboard/stats", apiHandler.DashboardStats)
				r.Get("/dashboard/activity", apiHandler.DashboardActivity)
			})
		})
	})

	// Uploaded photos
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		uploadsFS.ServeHTTP(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
