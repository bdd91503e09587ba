package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/fjgen/internal/builder"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/export"
	"github.com/vk/fjgen/internal/fsutil"
	"github.com/vk/fjgen/internal/rng"
)

// Validate loads every configuration file found under paths and checks it
// against its builder's feasibility rules and the known output formats.
// Nothing is generated. It returns the files checked and one error per
// invalid file.
func (a *App) Validate(ctx context.Context, paths ...string) ([]string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindConfigFiles(paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %v", paths)
	}

	var errs []error
	for _, file := range files {
		if err := a.validateFile(ctx, file); err != nil {
			logger.Warn("Configuration invalid.", "path", file, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		logger.Info("Configuration valid.", "path", file)
	}
	return files, errors.Join(errs...)
}

func (a *App) validateFile(ctx context.Context, file string) error {
	model, err := a.loader.Load(ctx, file)
	if err != nil {
		return err
	}
	// Validation never draws, so the seed is irrelevant.
	if _, err := builder.New(ctx, model, rng.New(0)); err != nil {
		return err
	}
	_, err = export.New(nil, model.Output, model.NumberOfDAGs)
	return err
}
