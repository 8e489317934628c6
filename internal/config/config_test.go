package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func process(t *testing.T, env map[string]string) Config {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	if err != nil {
		t.Fatalf("ProcessWith() error = %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := process(t, map[string]string{})

	if cfg.Links.BaseURL != "https://vite.pythonanywhere.com" {
		t.Errorf("Links.BaseURL = %q", cfg.Links.BaseURL)
	}
	if cfg.SubscriptionAPI.Endpoint != "http://127.0.0.1:8080/api" {
		t.Errorf("SubscriptionAPI.Endpoint = %q", cfg.SubscriptionAPI.Endpoint)
	}
	if cfg.SubscriptionAPI.Timeout != 5*time.Second {
		t.Errorf("SubscriptionAPI.Timeout = %v", cfg.SubscriptionAPI.Timeout)
	}
	if cfg.Expiration.Schedule != "10 0 * * *" {
		t.Errorf("Expiration.Schedule = %q", cfg.Expiration.Schedule)
	}
	if cfg.DefaultLanguage != "ru" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
	if cfg.HTTP.ADDR() != "0.0.0.0:8000" {
		t.Errorf("HTTP.ADDR() = %q", cfg.HTTP.ADDR())
	}
	if cfg.DatabaseNeeded() {
		t.Error("DatabaseNeeded() = true without API or bot")
	}
}

func TestOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg Config)
		needsDB bool
	}{
		{
			name: "api enabled",
			env:  map[string]string{"API_ENABLED": "true", "DB_PATH": "/tmp/x.db"},
			check: func(t *testing.T, cfg Config) {
				if cfg.DB.Path != "/tmp/x.db" {
					t.Errorf("DB.Path = %q", cfg.DB.Path)
				}
			},
			needsDB: true,
		},
		{
			name: "bot token",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN":    "123:abc",
				"TELEGRAM_MINI_APP_URL": "https://sub.example.com",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.Telegram.MiniAppURL != "https://sub.example.com" {
					t.Errorf("Telegram.MiniAppURL = %q", cfg.Telegram.MiniAppURL)
				}
			},
			needsDB: true,
		},
		{
			name: "rate limit and upstream",
			env: map[string]string{
				"SUBSCRIPTION_API_RATE_LIMIT_RPS":   "2.5",
				"SUBSCRIPTION_API_RATE_LIMIT_BURST": "3",
				"SUBSCRIPTION_CONFIG_UPSTREAM":      "http://panel/sub",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.SubscriptionAPI.RateLimit.RPS != 2.5 || cfg.SubscriptionAPI.RateLimit.Burst != 3 {
					t.Errorf("RateLimit = %+v", cfg.SubscriptionAPI.RateLimit)
				}
				if cfg.ConfigUpstream != "http://panel/sub" {
					t.Errorf("ConfigUpstream = %q", cfg.ConfigUpstream)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := process(t, tt.env)
			tt.check(t, cfg)
			if got := cfg.DatabaseNeeded(); got != tt.needsDB {
				t.Errorf("DatabaseNeeded() = %v, want %v", got, tt.needsDB)
			}
		})
	}
}
