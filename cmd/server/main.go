package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jahlib/czech-fool/internal/config"
	"github.com/jahlib/czech-fool/internal/registry"
	"github.com/jahlib/czech-fool/internal/repository"
	"github.com/jahlib/czech-fool/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	clearRooms = flag.Bool("clearrooms", false, "wipe all persisted rooms on startup")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting card game server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	pool, err := repository.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	store := repository.NewRoomStore(pool, logger)
	if err := store.Init(ctx); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	reg := registry.New(store, logger, registry.Options{
		CountdownSeconds: cfg.Game.CountdownSeconds,
		BotDelay:         cfg.Game.BotDelay,
		BotRetryDelay:    cfg.Game.BotRetryDelay,
	})

	if *clearRooms {
		n, err := store.DeleteAll(ctx)
		if err != nil {
			logger.Fatal("failed to clear rooms", zap.Error(err))
		}
		logger.Info("cleared persisted rooms", zap.Int("count", n))
	} else if err := reg.LoadPersistedRooms(ctx); err != nil {
		logger.Warn("failed to restore persisted rooms", zap.Error(err))
	}

	// Stale rooms are purged on a slow ticker so abandoned games do not
	// accumulate in the database.
	go func() {
		ticker := time.NewTicker(cfg.Game.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reg.PurgeInactive(ctx, cfg.Game.RoomTTL)
			}
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewHandler(reg, logger))
	if cfg.Server.StaticDir != "" {
		mux.Handle("/", server.StaticHandler(cfg.Server.StaticDir))
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}
	go func() {
		logger.Info("listening", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

// initLogger builds the zap logger from configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
