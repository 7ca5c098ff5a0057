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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"ransomnotes/internal/app"
	"ransomnotes/internal/bot"
	"ransomnotes/internal/config"
	"ransomnotes/internal/content"
	"ransomnotes/internal/store"
	httpTransport "ransomnotes/internal/transport/http"
	"ransomnotes/internal/transport/ws"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting ransomnotes game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
	)

	// Load the prompt and word deck
	deck, err := content.Load(cfg.Content.Path)
	if err != nil {
		logger.Error("failed to load content", "error", err)
		os.Exit(1)
	}

	// Select the game store backend
	var gameStore store.Store
	switch cfg.Store.Backend {
	case "redis":
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		cancel()
		defer client.Close()
		gameStore = store.NewRedis(client, cfg.Store.GameTTL)
	default:
		gameStore = store.NewMemory()
	}

	// Bot strategy and backend supervision
	strategy := bot.NewOllama(cfg.Bot.OllamaURL, cfg.Bot.OllamaModel, cfg.Bot.Timeout, logger)
	manager := bot.NewManager(bot.ManagerOptions{
		Health:        strategy.Healthy,
		IdleTimeout:   cfg.Bot.IdleTimeout,
		CheckInterval: cfg.Bot.CheckInterval,
		Logger:        logger,
	})
	defer manager.Close()

	managerCtx, stopManager := context.WithCancel(context.Background())
	defer stopManager()
	go manager.Run(managerCtx)

	service := app.NewService(app.Options{
		Store:      gameStore,
		Content:    deck,
		Strategy:   strategy,
		Manager:    manager,
		BotTimeout: cfg.Bot.Timeout,
		Logger:     logger,
	})

	hub := ws.NewHub(logger)
	service.SetBroadcaster(hub)
	wsHandler := ws.NewHandler(hub, service, logger)

	server := httpTransport.NewServer(cfg, service, wsHandler, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
