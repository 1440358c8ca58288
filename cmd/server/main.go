package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/prodplan/internal/config"
	"github.com/example/prodplan/internal/endpoint"
	"github.com/example/prodplan/internal/observability"
	"github.com/example/prodplan/internal/service"
	"github.com/example/prodplan/internal/storage/sqlite"
	"github.com/example/prodplan/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: prodplan.yaml in the working directory, if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	// Create metrics infrastructure
	metrics := observability.NewMetrics()

	// Start debug server for pprof and metrics
	if cfg.Debug.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics)
			// pprof endpoints are registered automatically via import
			logger.Info("starting debug server (pprof + metrics)", zap.String("addr", cfg.Debug.Addr))
			if err := http.ListenAndServe(cfg.Debug.Addr, mux); err != nil {
				logger.Warn("debug server error", zap.Error(err))
			}
		}()
	}

	// Initialize storage with metrics
	logger.Info("initializing SQLite storage", zap.String("path", cfg.Storage.Path))
	store, err := sqlite.NewWithMetrics(cfg.Storage.Path, metrics)
	if err != nil {
		logger.Fatal("failed to create storage", zap.Error(err))
	}
	defer store.Close()

	// Run migrations
	logger.Info("running database migrations")
	if err := store.Migrate(context.Background()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Wire service, endpoints, and the web server
	svc := service.NewPlanServiceWithMetrics(store, metrics)
	endpoints := endpoint.MakeEndpoints(svc)
	server := web.NewServer(cfg.Web.Addr, endpoints, metrics, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting prodplan server", zap.String("addr", cfg.Web.Addr))
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
