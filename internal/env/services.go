package environment

import (
	"context"
	"log/slog"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/config"
	"vpn-subpage/internal/links"
	"vpn-subpage/internal/localization"
	"vpn-subpage/internal/metrics"
	"vpn-subpage/internal/render"
	"vpn-subpage/internal/storage"
	"vpn-subpage/internal/stories/subs"
	"vpn-subpage/internal/stories/subscription"
	"vpn-subpage/internal/stories/users"
	"vpn-subpage/internal/telegram"
	"vpn-subpage/internal/web"
	"vpn-subpage/internal/workers"
	"vpn-subpage/internal/workers/expiration"
	"vpn-subpage/internal/workers/healthcheck"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Handler       *web.Handler
	TelegramBot   *telegram.Bot
	WorkerManager *workers.Manager
	// nil когда база не используется
	Storage pinger
}

func newServices(_ context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalog")
	}

	tr, err := localization.NewService(cfg.DefaultLanguage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load translations")
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register metrics")
	}

	resolver := links.NewResolver(cfg.Links.BaseURL, nil)

	renderer, err := render.New(tr, resolver, render.DefaultScriptURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	subscriptionService := subscription.NewService(
		clients.SubscriptionAPI,
		logger.WithGroup("subscription"),
		subscription.WithObserver(m),
	)

	deps := web.Deps{
		Catalog:       cat,
		Subscriptions: subscriptionService,
		Renderer:      renderer,
		Links:         resolver,
		Languages:     tr,
		Metrics:       m,
		Proxy:         web.NewConfigProxy(cfg.ConfigUpstream, nil, logger.WithGroup("vpnclient")),
		Logger:        logger.WithGroup("http"),
	}

	var userService *users.Service
	var backgroundWorkers []workers.Worker

	if clients.SQLiteDB != nil {
		if err := storage.Migrate(clients.SQLiteDB.DB.DB); err != nil {
			return nil, errors.Wrap(err, "failed to migrate database")
		}

		storageImpl := storage.New(clients.SQLiteDB.DB)
		s.Storage = storageImpl

		userService = users.NewService(storageImpl)
		subsService := subs.NewService(storageImpl)

		if cfg.API.Enabled {
			deps.Overviews = subsService
		}

		backgroundWorkers = append(backgroundWorkers,
			expiration.NewWorker(storageImpl, logger.WithGroup("expiration"), cfg.Expiration.Schedule,
				expiration.WithReporter(m)))
	}

	if targets := healthTargets(cfg); len(targets) > 0 {
		backgroundWorkers = append(backgroundWorkers,
			healthcheck.NewWorker(targets, m, cfg.Healthcheck.Interval, logger.WithGroup("healthcheck")))
	}

	s.Handler = web.NewHandler(deps)
	s.WorkerManager = workers.NewManager(logger.WithGroup("workers"), backgroundWorkers...)

	if clients.TelegramBot != nil {
		s.TelegramBot = newTelegramBot(clients, cfg, tr, userService, logger)
	}

	return &s, nil
}

func newTelegramBot(
	clients *Clients,
	cfg *config.Config,
	tr *localization.Service,
	registrar *users.Service,
	logger *slog.Logger,
) *telegram.Bot {
	miniAppURL := cfg.Telegram.MiniAppURL
	if miniAppURL == "" {
		miniAppURL = cfg.Links.BaseURL
	}

	// nil *users.Service нельзя передавать как интерфейс
	if registrar == nil {
		return telegram.NewBot(clients.TelegramBot, clients.SubscriptionAPI, tr, nil, miniAppURL, logger.WithGroup("bot"))
	}
	return telegram.NewBot(clients.TelegramBot, clients.SubscriptionAPI, tr, registrar, miniAppURL, logger.WithGroup("bot"))
}

func healthTargets(cfg *config.Config) []healthcheck.Target {
	var targets []healthcheck.Target
	if cfg.Healthcheck.SubscriptionAPIURL != "" {
		targets = append(targets, healthcheck.Target{Name: "subscription_api", URL: cfg.Healthcheck.SubscriptionAPIURL})
	}
	if cfg.Healthcheck.ConfigUpstreamURL != "" {
		targets = append(targets, healthcheck.Target{Name: "config_upstream", URL: cfg.Healthcheck.ConfigUpstreamURL})
	}
	return targets
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}
