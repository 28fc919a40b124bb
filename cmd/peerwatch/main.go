package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"peerwatch/internal/app"
	"peerwatch/internal/infra/config"
	"peerwatch/internal/infra/logger"
	"peerwatch/internal/infra/pr"
)

func main() {
	// envPath — .env с API_ID/API_HASH/PHONE_NUMBER и прочими настройками.
	envPath := flag.String("env", "assets/.env", "path to .env file")
	flag.Parse()

	if err := pr.Init(); err != nil {
		logger.Fatal("failed to init terminal", zap.Error(err))
	}
	defer pr.Close()

	if err := config.Load(*envPath); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	env := config.Env()

	// Консоль идёт через readline, чтобы логи не ломали приглашения ввода.
	logger.Init(env.LogLevel)
	logger.SetWriters(pr.Stdout(), pr.Stderr())
	logger.EnableFile(logger.FileOptions{
		Path:       env.LogFile,
		Level:      env.LogFileLevel,
		MaxSizeMB:  env.LogFileMaxSize,
		MaxBackups: env.LogFileMaxBackups,
		MaxAgeDays: env.LogFileMaxAge,
		Compress:   env.LogFileCompress,
	})
	defer logger.Close()
	for _, msg := range config.Warnings() {
		logger.Warn(msg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(env)
	if err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}
	if err = a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		stop()
		logger.Fatal("app run failed", zap.Error(err))
	}
	logger.Info("Graceful shutdown complete")
}
