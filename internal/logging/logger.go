package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"remo-monitor/internal/config"
)

// New builds the process logger: colored text in dev, JSON everywhere else.
func New(cfg *config.Config, version string, appName string) *slog.Logger {
	if cfg.Debug() {
		h := tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.App.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.App.Env,
	)
}
