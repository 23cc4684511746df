package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orderdesk-bot/internal/bot"
	"orderdesk-bot/internal/config"
	"orderdesk-bot/internal/keepalive"
	"orderdesk-bot/internal/storage"
	redisstorage "orderdesk-bot/internal/storage/redis"
	"orderdesk-bot/pkg/logger"
	"orderdesk-bot/pkg/redis"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Best effort: a missing .env is fine, real env vars take over.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	keepalive.New(cfg.KeepAliveAddr, zapLogger).Start(ctx)

	cache := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cache.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, storage.Config{
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		DBName:          cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}, cache, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	var sessions bot.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		redisSessions := redisstorage.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		defer redisSessions.Close()
		sessions = redisSessions
	default:
		sessions = bot.NewMemorySessionStore()
	}

	tgBot, err := bot.New(
		cfg.TelegramToken,
		sessions,
		pgStorage,
		zapLogger,
		cfg,
	)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
