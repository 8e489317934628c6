package environment

import (
	"context"
	"log/slog"
	"net/http"

	"vpn-subpage/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		Page          *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, services *Services) *Servers {
	var servers Servers

	servers.HTTP.Page = &http.Server{
		Handler:           services.Handler.Router(),
		Addr:              cfg.HTTP.ADDR(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("observability"), services, cfg)

	return &servers
}
