package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/config"
	"github.com/BuzzLyutic/taskhub-api/internal/handler"
	"github.com/BuzzLyutic/taskhub-api/internal/middleware"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
	"github.com/BuzzLyutic/taskhub-api/internal/repo/sqlite"
	"github.com/BuzzLyutic/taskhub-api/internal/worker"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем логгер
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// Подключаем БД
	store, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open the Database", zap.String("driver", cfg.DBDriver), zap.Error(err)) // дальнейшая работа теряет смысл
	}
	defer store.Close()
	logger.Info("Successfully connected to the Database!", zap.String("driver", cfg.DBDriver))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sweeper := worker.NewSweeper(store, cfg.SweepInterval, logger)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("Failed to start blacklist sweeper", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := handler.NewRouter(handler.Deps{
		Store:    store,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Metrics:  middleware.NewMetrics(reg),
		PageSize: cfg.PageSize,
		Logger:   logger,
	})

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	stop()
	sweeper.Stop()
	logger.Info("Server stopped successfully!")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(level); perr == nil {
			cfg.Level = lvl
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		logger.Info("Using SQLite storage", zap.String("path", cfg.SQLitePath))
		s, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL) // Создаем пул соединений к БД
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
			pool.Close()
			return nil, err
		}
		if err := repo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repo.NewPostgresRepo(pool), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
