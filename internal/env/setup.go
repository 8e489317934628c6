package environment

import (
	"context"
	"fmt"
	"log/slog"

	"vpn-subpage/internal/config"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type closer func()

type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Servers  *Servers
	Clients  *Clients
	Services *Services

	Closers []closer
}

func Setup(ctx context.Context) (*Env, error) {
	// Загружаем .env файл если он существует (игнорируем ошибки - файл может не существовать)
	_ = godotenv.Load()

	var cfg config.Config
	err := envconfig.Process(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("env processing: %w", err)
	}

	var e Env

	logger, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	clients, err := newClients(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("newClients: %w", err)
	}
	if clients.SQLiteDB != nil {
		e.Closers = append(e.Closers, func() {
			if err := clients.SQLiteDB.Close(); err != nil {
				logger.Error("Failed to close database", slog.Any("error", err))
			}
		})
	}

	services, err := newServices(ctx, clients, &cfg, logger)
	if err != nil {
		for _, c := range e.Closers {
			c()
		}
		return nil, fmt.Errorf("newServices: %w", err)
	}

	e.Servers = newServers(ctx, cfg, logger, services)
	e.Config = &cfg
	e.Logger = logger
	e.Clients = clients
	e.Services = services

	return &e, nil
}
