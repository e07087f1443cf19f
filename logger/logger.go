// Package logger configures the process-wide slog logger.
//
// Production gets JSON lines for log aggregators; everything else gets the
// human-readable text handler at debug level.
package logger

import (
	"log/slog"
	"os"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch os.Getenv("APP_ENV") {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}
