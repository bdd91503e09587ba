package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/filestore"
)

// storeOpener resolves an output destination to a store.
type storeOpener func(ctx context.Context, dest string, opts config.S3Options) (filestore.Store, error)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	openStore storeOpener
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger writing to outW.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		loader:    loader,
		openStore: filestore.Open,
	}
}
