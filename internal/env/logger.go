package environment

import (
	"log/slog"
	"os"
	"strings"

	"vpn-subpage/internal/config"
)

const serviceName = "subpage"

func initLogger(cfg config.Config) (*slog.Logger, error) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logger.Level)}

	if cfg.Env == "local" {
		// Text handler for local development
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// JSON handler for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", serviceName), slog.String("env", cfg.Env)), nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
