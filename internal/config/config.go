package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	HTTP             HTTPServerConfig        `env:",prefix=HTTP_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	Links            LinksConfig             `env:",prefix=LINKS_"`
	SubscriptionAPI  SubscriptionAPIConfig   `env:",prefix=SUBSCRIPTION_API_"`

	// Куда проксировать запросы VPN-клиентов; пусто - отдаем {}
	ConfigUpstream  string            `env:"SUBSCRIPTION_CONFIG_UPSTREAM"`
	API             APIConfig         `env:",prefix=API_"`
	DB              SQLiteConfig      `env:",prefix=DB_"`
	CatalogPath     string            `env:"CATALOG_PATH"`
	DefaultLanguage string            `env:"DEFAULT_LANGUAGE,default=ru"`
	Telegram        TelegramConfig    `env:",prefix=TELEGRAM_"`
	Expiration      ExpirationConfig  `env:",prefix=EXPIRATION_"`
	Healthcheck     HealthcheckConfig `env:",prefix=HEALTHCHECK_"`
}

type TelegramConfig struct {
	// Без токена бот не запускается
	BotToken   string `env:"BOT_TOKEN"`
	MiniAppURL string `env:"MINI_APP_URL"`
}

type LinksConfig struct {
	BaseURL string `env:"BASE_URL,default=https://vite.pythonanywhere.com"`
}

type SubscriptionAPIConfig struct {
	Endpoint  string        `env:"ENDPOINT,default=http://127.0.0.1:8080/api"`
	Timeout   time.Duration `env:"TIMEOUT,default=5s"`
	RateLimit struct {
		Burst int     `env:"BURST,default=10"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

// APIConfig enables the subscription API served from the local database.
type APIConfig struct {
	Enabled bool `env:"ENABLED,default=false"`
}

type ExpirationConfig struct {
	Schedule string `env:"SCHEDULE,default=10 0 * * *"`
}

// HealthcheckConfig lists upstream URLs probed in the background. Empty URLs are
// not probed.
type HealthcheckConfig struct {
	Interval           time.Duration `env:"INTERVAL,default=30s"`
	SubscriptionAPIURL string        `env:"SUBSCRIPTION_API_URL"`
	ConfigUpstreamURL  string        `env:"CONFIG_UPSTREAM_URL"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type HTTPServerConfig struct {
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         uint16        `env:"PORT,default=8000"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a HTTPServerConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/subpage.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}

// DatabaseNeeded reports whether any component reads the local database.
func (c Config) DatabaseNeeded() bool {
	return c.API.Enabled || c.Telegram.BotToken != ""
}
