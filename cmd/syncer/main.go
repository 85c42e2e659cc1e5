package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/atelic/chess-dashboard-sub001/internal/analytics"
	"github.com/atelic/chess-dashboard-sub001/internal/config"
	"github.com/atelic/chess-dashboard-sub001/internal/domain"
	"github.com/atelic/chess-dashboard-sub001/internal/publisher"
	"github.com/atelic/chess-dashboard-sub001/internal/service"
	"github.com/atelic/chess-dashboard-sub001/internal/source/chesscom"
	"github.com/atelic/chess-dashboard-sub001/internal/source/lichess"
	"github.com/atelic/chess-dashboard-sub001/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.Int64("user", 0, "user to sync")
	resync := flag.Bool("resync", false, "delete stored games and re-ingest full history")
	stats := flag.Bool("stats", false, "print the analytics report after syncing")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = setupLogger(cfg.LogLevel)

	if *userID <= 0 {
		logger.Error("missing required -user flag")
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	gameStore := postgres.NewGameStore(db)
	userStore := postgres.NewUserStore(db)
	txManager := postgres.NewTransactionManager(db)

	chessComSource := chesscom.New(chesscom.Config{
		BaseURL:        cfg.ChessCom.BaseURL,
		Timeout:        cfg.ChessCom.Timeout,
		RateLimit:      cfg.ChessCom.RateLimit,
		MaxAttempts:    cfg.ChessCom.Retry.MaxAttempts,
		InitialBackoff: cfg.ChessCom.Retry.InitialBackoff,
		MaxBackoff:     cfg.ChessCom.Retry.MaxBackoff,
	}, logger)

	lichessSource := lichess.New(lichess.Config{
		BaseURL:     cfg.Lichess.BaseURL,
		Timeout:     cfg.Lichess.Timeout,
		MaxGames:    cfg.Sync.MaxGamesPerSource,
		MaxAttempts: cfg.Lichess.Retry.MaxAttempts,
		Backoff:     cfg.Lichess.Retry.InitialBackoff,
	}, logger)

	syncService := service.NewSyncService(
		[]service.Source{chessComSource, lichessSource},
		gameStore,
		userStore,
		txManager,
		rabbitMQ,
		logger,
		cfg.Sync,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var result *domain.SyncResult
	if *resync {
		result, err = syncService.FullResync(ctx, *userID)
	} else {
		result, err = syncService.SyncGames(ctx, *userID, service.Options{})
	}
	if err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}

	logger.Info("sync finished",
		"success", result.Success,
		"new_games", result.NewGamesCount,
		"total_games", result.TotalGamesCount,
		"duration", result.Duration,
	)

	if *stats {
		games, err := gameStore.FindByUser(ctx, *userID)
		if err != nil {
			logger.Error("failed to load games", "error", err)
			os.Exit(1)
		}
		report := analytics.BuildReport(games)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
	}

	if !result.Success {
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
