package app

import (
	"io"
	"log/slog"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. Unknown
// levels fall back to info and unknown formats to text; NewConfig rejects
// both before an App is built.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}
