package environment

import (
	"context"
	"log/slog"
	"time"

	"vpn-subpage/internal/config"
	"vpn-subpage/internal/infra/sqlite3"
	"vpn-subpage/internal/infra/subapi"
	"vpn-subpage/internal/infra/telegram"
)

type Clients struct {
	SQLiteDB        *sqlite3.DB
	SubscriptionAPI *subapi.Client
	TelegramBot     *telegram.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	var clients Clients

	if cfg.DatabaseNeeded() {
		db, err := provideSQLiteDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		clients.SQLiteDB = db
	}

	clients.SubscriptionAPI = subapi.NewClient(
		cfg.SubscriptionAPI.Endpoint,
		logger.WithGroup("subapi"),
		subapi.WithTimeout(cfg.SubscriptionAPI.Timeout),
		subapi.WithRateLimit(cfg.SubscriptionAPI.RateLimit.RPS, cfg.SubscriptionAPI.RateLimit.Burst),
	)

	telegramBot, err := provideTelegramBot(cfg, logger)
	if err != nil {
		if clients.SQLiteDB != nil {
			_ = clients.SQLiteDB.Close()
		}
		return nil, err
	}
	clients.TelegramBot = telegramBot

	return &clients, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}

	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}

func provideTelegramBot(cfg config.Config, logger *slog.Logger) (*telegram.Client, error) {
	// Без токена бот просто не запускается
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}

	return telegram.NewClient(cfg.Telegram.BotToken, logger.WithGroup("telegram"))
}
