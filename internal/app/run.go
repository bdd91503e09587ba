package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/vk/fjgen/internal/builder"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/export"
	"github.com/vk/fjgen/internal/filestore"
	"github.com/vk/fjgen/internal/rng"
	"github.com/vk/fjgen/internal/timing"
)

// Summary describes a finished generation run.
type Summary struct {
	RunID       string
	Seed        uint64
	DAGs        int
	Destination string
	Artifacts   []string
	DryRun      bool
}

// Run loads the configuration, generates every DAG, assigns its timing and
// exports it. It stops at the first failure or when ctx is cancelled.
func (a *App) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	ctx = ctxlog.WithLogger(ctx, a.logger.With("run_id", runID))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "config_path", a.config.ConfigPath)

	model, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.config.Destination != "" {
		model.Output.Destination = a.config.Destination
	}

	var seed uint64
	switch {
	case a.config.Seed != nil:
		seed = *a.config.Seed
	case model.Seed != nil:
		seed = *model.Seed
	default:
		seed = rand.Uint64()
	}
	src := rng.New(seed)
	ctx = ctxlog.With(ctx, "seed", seed)
	logger = ctxlog.FromContext(ctx)

	b, err := builder.New(ctx, model, src)
	if err != nil {
		return nil, err
	}

	var store filestore.Store
	if a.config.DryRun {
		memory := filestore.NewMemory()
		defer func() {
			logger.Info("Dry run: nothing was persisted.", "artifacts", len(memory.Names()), "bytes", memory.Size())
		}()
		store = memory
	} else {
		store, err = a.openStore(ctx, model.Output.Destination, model.Output.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to open output destination: %w", err)
		}
	}
	exp, err := export.New(store, model.Output, model.NumberOfDAGs)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Seed: seed, Destination: model.Output.Destination, DryRun: a.config.DryRun}
	logger.Info("Starting DAG generation.",
		"generation_method", model.GenerationMethod,
		"number_of_dags", model.NumberOfDAGs,
		"destination", model.Output.Destination,
	)

	index := 0
	for g, err := range b.Build(ctx) {
		if err != nil {
			return summary, err
		}
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("generation interrupted after %d DAGs: %w", index, err)
		}

		timing.Assign(g, model, src)
		if err := g.DetectCycles(); err != nil {
			return summary, &builder.BuildFailedError{DAG: index, Reason: "generated graph is not acyclic", Err: err}
		}

		written, err := exp.Export(ctx, index, g)
		summary.Artifacts = append(summary.Artifacts, written...)
		if err != nil {
			return summary, fmt.Errorf("failed to export dag %d: %w", index, err)
		}

		length, path, err := g.CriticalPath()
		if err != nil {
			return summary, fmt.Errorf("failed to analyse dag %d: %w", index, err)
		}
		logger.Info("DAG exported.",
			"dag", index,
			"name", exp.Name(index),
			"nodes", g.NodeCount(),
			"edges", len(g.RegularEdges()),
			"forks", len(g.IndirectEdges()),
			"volume", g.TotalExecutionTime(),
			"critical_path_length", length,
			"critical_path", path,
		)
		index++
		summary.DAGs = index
	}

	logger.Info("DAG generation finished.", "dags", summary.DAGs, "artifacts", len(summary.Artifacts))
	return summary, nil
}
