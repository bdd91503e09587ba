package builder

import (
	"context"
	"iter"

	"github.com/vk/fjgen/internal/dag"
)

// Builder produces randomized task graphs from a configuration.
//
// # Usage Pattern
//
//	b, err := builder.New(ctx, model, src)
//	if err != nil {
//	    // *InfeasibleConfigError: fix the configuration
//	}
//	for g, err := range b.Build(ctx) {
//	    if err != nil {
//	        // *BuildFailedError: a defect, abort the run
//	    }
//	    // g belongs to the caller
//	}
//
// The interface names no topology-specific parameters so that other graph
// shapes can implement it.
type Builder interface {
	// Validate checks that the configuration can produce at least one valid
	// graph. It is deterministic and draws no random numbers. Constructors
	// call it once; callers may call it again without side effects.
	Validate() error

	// Build returns a single-use iterator over the configured number of
	// graphs. Each graph is generated on demand when the consumer asks for
	// the next element. If generation fails the iterator yields one
	// (nil, error) pair and stops.
	//
	// ctx is used for logging only.
	Build(ctx context.Context) iter.Seq2[*dag.Graph, error]
}
