package builder

import (
	"context"
	"fmt"
	"iter"

	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/dag"
	"github.com/vk/fjgen/internal/rng"
)

// ForkJoin generates fork-join structured DAGs where every fork is closed by
// a matching join.
type ForkJoin struct {
	cfg *config.Model
	src rng.Source

	maxForkDepth int
	// minFork and maxFork bound the number of branches of every fork.
	minFork int
	maxFork int
}

// NewForkJoin derives the fork bounds from model and validates it.
func NewForkJoin(model *config.Model, src rng.Source) (*ForkJoin, error) {
	b := &ForkJoin{
		cfg:          model,
		src:          src,
		maxForkDepth: model.ForkDepth.MaxInt(),
		minFork:      max(1, model.NrFork.MinInt()),
		maxFork:      model.NrFork.MaxInt(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate implements the Builder interface.
func (b *ForkJoin) Validate() error {
	var reasons []string

	sources := b.cfg.NumberOfSourceNodes.MinIntOr(1)
	sinks := b.cfg.NumberOfSinkNodes.MinIntOr(1)
	if b.cfg.NumberOfNodes.IsSet() && sources+sinks > b.cfg.NumberOfNodes.MaxInt() {
		reasons = append(reasons, fmt.Sprintf(
			"'number of source nodes' (%d) + 'number of sink nodes' (%d) > 'number of nodes' (%d)",
			sources, sinks, b.cfg.NumberOfNodes.MaxInt()))
	}

	if p := b.cfg.EarlyTerminationProb.Max(); p < 0 || p > 1 {
		reasons = append(reasons, fmt.Sprintf("early termination probability %g exceeds bounds [0,1]", p))
	}

	utilization := b.cfg.GraphUtilization.IsSet()
	deadline := b.cfg.GraphDeadline.IsSet()
	period := b.cfg.GraphPeriod.IsSet()
	if (utilization && (deadline || period)) || (!utilization && (!deadline || !period)) {
		reasons = append(reasons, "specify either utilization only, or both deadline and period only")
	}

	if b.maxForkDepth < 1 {
		reasons = append(reasons, fmt.Sprintf("maximum fork depth must be at least 1, got %d", b.maxForkDepth))
	}

	if b.maxFork < 1 {
		reasons = append(reasons, fmt.Sprintf("maximum fork width must be at least 1, got %d", b.maxFork))
	}

	if len(reasons) > 0 {
		return &InfeasibleConfigError{Reasons: reasons}
	}
	return nil
}

// Build implements the Builder interface.
func (b *ForkJoin) Build(ctx context.Context) iter.Seq2[*dag.Graph, error] {
	return func(yield func(*dag.Graph, error) bool) {
		logger := ctxlog.FromContext(ctx)
		for i := range b.cfg.NumberOfDAGs {
			g, err := b.buildOne(i)
			if err != nil {
				logger.Error("DAG generation failed.", "dag", i, "error", err)
				yield(nil, err)
				return
			}
			logger.Debug("DAG generated.", "dag", i, "nodes", g.NodeCount(), "edges", g.EdgeCount())
			if !yield(g, nil) {
				logger.Debug("Consumer stopped generation early.", "dag", i)
				return
			}
		}
	}
}

// idCounter hands out node ids for one DAG, starting at 0.
type idCounter struct {
	next int
}

func (c *idCounter) Next() int {
	id := c.next
	c.next++
	return id
}

// forkJoinRun is the state of one DAG's generation. It is discarded once
// the graph is yielded.
type forkJoinRun struct {
	*ForkJoin
	index            int
	g                *dag.Graph
	ids              idCounter
	earlyTermination float64
}

func (b *ForkJoin) buildOne(index int) (*dag.Graph, error) {
	run := &forkJoinRun{ForkJoin: b, index: index, g: dag.New()}

	// Drawn once per DAG so that a single seed controls how short branches get.
	run.earlyTermination = b.cfg.EarlyTerminationProb.Choice(b.src)

	numSources := 1
	if b.cfg.NumberOfSourceNodes.IsSet() {
		numSources = b.cfg.NumberOfSourceNodes.ChoiceInt(b.src)
	}
	if numSources < 1 {
		return nil, &BuildFailedError{DAG: index, Reason: fmt.Sprintf("sampled %d source nodes", numSources)}
	}

	outputs := make([]int, 0, numSources)
	for range numSources {
		source := run.newNode(dag.Source)
		out, err := run.fork(source, b.maxForkDepth)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	finalOutput := outputs[0]
	if len(outputs) > 1 {
		merge := run.newNode(dag.Untagged)
		for _, out := range outputs {
			if err := run.edge(out, merge); err != nil {
				return nil, err
			}
		}
		finalOutput = merge
	}

	if b.cfg.NumberOfSinkNodes.IsSet() {
		numSinks := b.cfg.NumberOfSinkNodes.ChoiceInt(b.src)
		switch {
		case numSinks < 1:
			return nil, &BuildFailedError{DAG: index, Reason: fmt.Sprintf("sampled %d sink nodes", numSinks)}
		case numSinks == 1:
			n, _ := run.g.Node(finalOutput)
			n.Type = dag.Sink
		default:
			for range numSinks {
				sink := run.newNode(dag.Sink)
				if err := run.edge(finalOutput, sink); err != nil {
					return nil, err
				}
			}
		}
	}

	return run.g, nil
}

// fork expands entry into a fork-join subtree of at most depth levels and
// returns the subtree's single output node.
func (run *forkJoinRun) fork(entry, depth int) (int, error) {
	if depth == 0 {
		return entry, nil
	}
	// The first level never terminates early, so every DAG forks at least once.
	if depth < run.maxForkDepth && run.src.Float64() < run.earlyTermination {
		return entry, nil
	}

	numForks := run.minFork
	if run.maxFork > run.minFork {
		numForks += run.src.IntN(run.maxFork - run.minFork + 1)
	}

	children := make([]int, numForks)
	for i := range children {
		children[i] = run.newNode(dag.Untagged)
		if err := run.edge(entry, children[i]); err != nil {
			return 0, err
		}
	}

	leaves := make([]int, numForks)
	for i, child := range children {
		leaf, err := run.fork(child, depth-1)
		if err != nil {
			return 0, err
		}
		leaves[i] = leaf
	}

	join := run.newNode(dag.Untagged)
	for _, leaf := range leaves {
		if err := run.edge(leaf, join); err != nil {
			return 0, err
		}
	}
	if err := run.g.AddIndirectEdge(entry, join); err != nil {
		return 0, run.failed(err)
	}

	return join, nil
}

func (run *forkJoinRun) newNode(t dag.NodeType) int {
	n := run.g.AddNode(run.ids.Next())
	n.Type = t
	return n.ID
}

func (run *forkJoinRun) edge(from, to int) error {
	if err := run.g.AddEdge(from, to); err != nil {
		return run.failed(err)
	}
	return nil
}

func (run *forkJoinRun) failed(err error) error {
	return &BuildFailedError{DAG: run.index, Reason: "graph mutation rejected", Err: err}
}
