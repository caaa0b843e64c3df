package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/ajustes/internal/auth"
	"github.com/BradenHooton/ajustes/internal/background"
	"github.com/BradenHooton/ajustes/internal/config"
	"github.com/BradenHooton/ajustes/internal/database"
	"github.com/BradenHooton/ajustes/internal/handlers"
	"github.com/BradenHooton/ajustes/internal/metrics"
	middlewareCustom "github.com/BradenHooton/ajustes/internal/middleware"
	"github.com/BradenHooton/ajustes/internal/repositories"
	"github.com/BradenHooton/ajustes/internal/routes"
	"github.com/BradenHooton/ajustes/internal/services"
	"github.com/BradenHooton/ajustes/internal/storage"
	pkglogger "github.com/BradenHooton/ajustes/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// compile-time checks for the two store backends
var (
	_ storage.ClientStateRepository = (*repositories.ClientStateRepository)(nil)
	_ background.StaleStateDeleter  = (*repositories.ClientStateRepository)(nil)
	_ background.StaleStateDeleter  = (*storage.MemoryStore)(nil)
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("auth_backend", cfg.Backend.URL),
	)

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Client state store
	var (
		stores        storage.Provider
		healthChecker handlers.HealthChecker
		staleState    background.StaleStateDeleter
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}

		stateRepo := repositories.NewClientStateRepository(db)
		stores = storage.RepositoryProvider(stateRepo, logger)
		healthChecker = db
		staleState = stateRepo
	default:
		memStore := storage.NewMemoryStore()
		stores = storage.MemoryProvider(memStore)
		staleState = memStore
	}

	cleanupManager := background.NewCleanupManager(staleState, logger, cfg.Store.CleanupInterval, cfg.Store.Retention)
	cleanupManager.SetMetrics(appMetrics)

	// Services
	authClient := services.NewHTTPAuthClient(cfg.Backend.URL, cfg.Backend.Timeout, logger)
	loginService := services.NewLoginService(authClient, services.ThrottleConfig{
		MaxAttempts:     cfg.Login.MaxAttempts,
		LockoutDuration: cfg.Login.LockoutDuration,
	}, services.SystemClock{}, logger)
	loginService.SetMetrics(appMetrics)

	cookieConfig := auth.CookieConfig{
		Domain:   cfg.Cookie.Domain,
		Secure:   cfg.Cookie.Secure,
		SameSite: strings.ToLower(cfg.Cookie.SameSite),
	}
	loginHandler := handlers.NewLoginHandler(
		loginService,
		stores,
		auth.NewTokenInspector(),
		cookieConfig,
		pkglogger.NewAuditLogger(logger),
		logger,
	)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(
		router,
		loginHandler,
		handlers.Health(healthChecker),
		promhttp.Handler(),
		middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Login.RateLimitPerMinute},
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
