package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	environment "vpn-subpage/internal/env"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := environment.Setup(ctx)
	if err != nil {
		log.Fatalf("Failed to setup environment: %v", err)
	}

	logger := env.Logger
	logger.Info("Starting subscription page")

	if env.Servers.HTTP.Observability != nil {
		go func() {
			logger.Info("Starting observability server", slog.String("addr", env.Servers.HTTP.Observability.Addr))
			if err := env.Servers.HTTP.Observability.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Observability server error", slog.Any("error", err))
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting page server", slog.String("addr", env.Servers.HTTP.Page.Addr))
		if err := env.Servers.HTTP.Page.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	startTelegramBot(ctx, env)

	if err := env.Services.WorkerManager.Start(); err != nil {
		logger.Error("Failed to start workers", slog.Any("error", err))
		shutdown(env)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.Error("Page server error", slog.Any("error", err))
	}

	shutdown(env)
}

// startTelegramBot запускает бота, если задан токен
func startTelegramBot(ctx context.Context, env *environment.Env) {
	logger := env.Logger

	if env.Clients.TelegramBot == nil || env.Services.TelegramBot == nil {
		logger.Info("Telegram bot disabled, TELEGRAM_BOT_TOKEN is empty")
		return
	}

	if err := env.Clients.TelegramBot.Start(ctx); err != nil {
		logger.Error("Failed to start telegram bot", slog.Any("error", err))
		return
	}

	// Меню команд не критично для работы бота
	if err := env.Services.TelegramBot.SetupCommands(); err != nil {
		logger.Warn("Failed to setup bot commands", slog.Any("error", err))
	}

	go env.Services.TelegramBot.Run(ctx, env.Clients.TelegramBot.Updates())
}

func shutdown(env *environment.Env) {
	logger := env.Logger
	logger.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer cancel()

	if env.Clients.TelegramBot != nil {
		env.Clients.TelegramBot.Stop()
	}

	env.Services.WorkerManager.Stop()

	if err := env.Servers.HTTP.Page.Shutdown(shutdownCtx); err != nil {
		logger.Error("Page server shutdown error", slog.Any("error", err))
	}
	if env.Servers.HTTP.Observability != nil {
		if err := env.Servers.HTTP.Observability.Shutdown(shutdownCtx); err != nil {
			logger.Error("Observability server shutdown error", slog.Any("error", err))
		}
	}

	for _, closer := range env.Closers {
		closer()
	}

	logger.Info("Application stopped")
}
