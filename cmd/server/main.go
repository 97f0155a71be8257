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

	"github.com/dogclock/api/internal/clock"
	"github.com/dogclock/api/internal/config"
	"github.com/dogclock/api/internal/database"
	"github.com/dogclock/api/internal/handlers"
	"github.com/dogclock/api/internal/memstore"
	"github.com/dogclock/api/internal/models"
	"github.com/dogclock/api/internal/redis"
	"github.com/dogclock/api/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Setup structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("starting dogclock api",
		slog.Int("port", cfg.Server.Port),
		slog.String("store", cfg.Store.Engine),
		slog.Bool("redis", cfg.Redis.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Seed(ctx, models.DefaultProducts(), models.DefaultUser()); err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{"store": store}

	var (
		board    service.FocusBoard      = service.NopFocusBoard{}
		registry service.RunningRegistry = service.NopRunningRegistry{}
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer rdb.Close()

		board, registry = rdb, rdb
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

		// Initialize the board cache from stored sessions
		sessions, err := store.ListSessions(ctx)
		if err != nil {
			return err
		}
		if err := rdb.RebuildFocusBoard(ctx, sessions); err != nil {
			logger.Warn("failed to rebuild focus board", slog.Any("error", err))
		}
	}

	clk := clock.Real{}
	petService := service.NewPetService(store, clk, nil, logger)
	pomodoroService := service.NewPomodoroService(store, board, registry, clk, logger)
	shopService := service.NewShopService(store, logger)

	router := handlers.NewRouter(handlers.RouterConfig{
		Pets:        handlers.NewPetHandler(petService, logger),
		Pomodoro:    handlers.NewPomodoroHandler(pomodoroService, logger),
		Shop:        handlers.NewShopHandler(shopService, logger),
		Checks:      checks,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Clock:       clk,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// openStore connects the configured persistence engine
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, func(), error) {
	if cfg.Store.Engine == config.EngineMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.NewConnection(connectCtx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := database.RunMigrations(cfg.Database); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("database migrations completed")

	return db, func() { db.Close() }, nil
}
