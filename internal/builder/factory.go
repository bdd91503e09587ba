package builder

import (
	"context"
	"fmt"

	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/rng"
)

// New returns the builder selected by model.GenerationMethod, already
// validated against model.
func New(ctx context.Context, model *config.Model, src rng.Source) (Builder, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Selecting DAG builder.", "generation_method", model.GenerationMethod)

	switch model.GenerationMethod {
	case config.MethodForkJoin:
		return NewForkJoin(model, src)
	default:
		return nil, fmt.Errorf("unknown generation method %q", model.GenerationMethod)
	}
}
