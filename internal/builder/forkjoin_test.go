package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/dag"
	"github.com/vk/fjgen/internal/rng"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return ctxlog.WithLogger(context.Background(), slogt.New(t))
}

// baseModel is the smallest fork-join configuration: one source, one level
// of exactly two branches, one sink.
func baseModel() *config.Model {
	return &config.Model{
		GenerationMethod:     config.MethodForkJoin,
		NumberOfDAGs:         1,
		ForkDepth:            config.Scalar(1),
		NrFork:               config.Scalar(2),
		EarlyTerminationProb: config.Scalar(0),
		NumberOfSourceNodes:  config.Scalar(1),
		NumberOfSinkNodes:    config.Scalar(1),
		GraphUtilization:     config.Scalar(0.5),
		Output:               config.Output{Destination: "out"},
	}
}

// countingSource wraps a real source and counts draws.
type countingSource struct {
	rng.Source
	draws int
}

func (c *countingSource) IntN(n int) int {
	c.draws++
	return c.Source.IntN(n)
}

func (c *countingSource) Float64() float64 {
	c.draws++
	return c.Source.Float64()
}

func buildAll(t *testing.T, model *config.Model, seed uint64) []*dag.Graph {
	t.Helper()
	b, err := NewForkJoin(model, rng.New(seed))
	require.NoError(t, err)

	var out []*dag.Graph
	for g, err := range b.Build(testContext(t)) {
		require.NoError(t, err)
		out = append(out, g)
	}
	return out
}

func buildOne(t *testing.T, model *config.Model, seed uint64) *dag.Graph {
	t.Helper()
	graphs := buildAll(t, model, seed)
	require.Len(t, graphs, 1)
	return graphs[0]
}

func regularIn(g *dag.Graph, id int) []int {
	var out []int
	for _, e := range g.RegularEdges() {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

func regularOut(g *dag.Graph, id int) []int {
	var out []int
	for _, e := range g.RegularEdges() {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

type edgePair struct{ From, To int }

func pairs(edges []*dag.Edge) []edgePair {
	out := make([]edgePair, len(edges))
	for i, e := range edges {
		out[i] = edgePair{e.From, e.To}
	}
	return out
}

func TestNewForkJoin_Infeasible(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(m *config.Model)
		wantErr string
	}{
		{
			name: "source and sink nodes exceed node budget",
			mutate: func(m *config.Model) {
				m.NumberOfSourceNodes = config.Scalar(5)
				m.NumberOfSinkNodes = config.Scalar(5)
				m.NumberOfNodes = config.Scalar(6)
			},
			wantErr: "> 'number of nodes' (6)",
		},
		{
			name: "omitted source and sink counts default to one",
			mutate: func(m *config.Model) {
				m.NumberOfSourceNodes = config.Option{}
				m.NumberOfSinkNodes = config.Option{}
				m.NumberOfNodes = config.Scalar(1)
			},
			wantErr: "'number of source nodes' (1) + 'number of sink nodes' (1)",
		},
		{
			name:    "early termination above one",
			mutate:  func(m *config.Model) { m.EarlyTerminationProb = config.List(0.2, 1.5) },
			wantErr: "early termination probability 1.5 exceeds bounds [0,1]",
		},
		{
			name:    "early termination below zero",
			mutate:  func(m *config.Model) { m.EarlyTerminationProb = config.Scalar(-0.1) },
			wantErr: "exceeds bounds [0,1]",
		},
		{
			name:    "utilization with deadline",
			mutate:  func(m *config.Model) { m.GraphDeadline = config.Scalar(100) },
			wantErr: "specify either utilization only, or both deadline and period only",
		},
		{
			name:    "utilization with period",
			mutate:  func(m *config.Model) { m.GraphPeriod = config.Scalar(100) },
			wantErr: "specify either utilization only",
		},
		{
			name: "deadline without period",
			mutate: func(m *config.Model) {
				m.GraphUtilization = config.Option{}
				m.GraphDeadline = config.Scalar(100)
			},
			wantErr: "specify either utilization only",
		},
		{
			name:    "no timing at all",
			mutate:  func(m *config.Model) { m.GraphUtilization = config.Option{} },
			wantErr: "specify either utilization only",
		},
		{
			name:    "zero fork depth",
			mutate:  func(m *config.Model) { m.ForkDepth = config.Scalar(0) },
			wantErr: "maximum fork depth must be at least 1, got 0",
		},
		{
			name:    "zero fork width",
			mutate:  func(m *config.Model) { m.NrFork = config.Scalar(0) },
			wantErr: "maximum fork width must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := baseModel()
			tc.mutate(m)

			b, err := NewForkJoin(m, rng.New(1))
			require.Nil(t, b)
			var infeasible *InfeasibleConfigError
			require.ErrorAs(t, err, &infeasible)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewForkJoin_DeadlineAndPeriodIsFeasible(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.GraphUtilization = config.Option{}
	m.GraphDeadline = config.Scalar(100)
	m.GraphPeriod = config.Scalar(120)
	_, err := NewForkJoin(m, rng.New(1))
	require.NoError(t, err)
}

func TestNewForkJoin_ReportsEveryFailedCheck(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfNodes = config.Scalar(1)
	m.EarlyTerminationProb = config.Scalar(2)
	m.GraphDeadline = config.Scalar(10)

	_, err := NewForkJoin(m, rng.New(1))
	var infeasible *InfeasibleConfigError
	require.ErrorAs(t, err, &infeasible)
	assert.Len(t, infeasible.Reasons, 3)
}

func TestNewForkJoin_ValidationDrawsNothing(t *testing.T) {
	t.Parallel()

	src := &countingSource{Source: rng.New(1)}
	b, err := NewForkJoin(baseModel(), src)
	require.NoError(t, err)
	require.NoError(t, b.Validate())
	assert.Zero(t, src.draws)
}

func TestBuild_SingleSourceScenario(t *testing.T) {
	t.Parallel()

	g := buildOne(t, baseModel(), 7)

	require.Equal(t, 4, g.NodeCount())
	assert.Equal(t, []int{0}, g.NodesOfType(dag.Source))
	assert.Equal(t, []int{3}, g.NodesOfType(dag.Sink))
	assert.Equal(t, []int{1, 2}, g.NodesOfType(dag.Untagged))

	assert.Equal(t, []edgePair{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, pairs(g.RegularEdges()))
	assert.Equal(t, []edgePair{{0, 3}}, pairs(g.IndirectEdges()))
}

func TestBuild_TwoSourceScenario(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSourceNodes = config.Scalar(2)
	g := buildOne(t, m, 7)

	require.Equal(t, 9, g.NodeCount())
	assert.Equal(t, []int{0, 4}, g.NodesOfType(dag.Source))
	// The merge node, not either join, is the sink.
	assert.Equal(t, []int{8}, g.NodesOfType(dag.Sink))
	assert.Equal(t, []int{3, 7}, g.Predecessors(8))

	assert.Len(t, g.RegularEdges(), 10)
	assert.Equal(t, []edgePair{{0, 3}, {4, 7}}, pairs(g.IndirectEdges()))
}

func TestBuild_ThreeSourcesShareOneMerge(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSourceNodes = config.Scalar(3)
	m.ForkDepth = config.Scalar(2)
	m.NrFork = config.List(1, 3)
	m.NumberOfSinkNodes = config.Scalar(2)

	for seed := range uint64(20) {
		g := buildOne(t, m, seed)

		sinks := g.NodesOfType(dag.Sink)
		require.Len(t, sinks, 2)
		merge := g.Predecessors(sinks[0])
		require.Len(t, merge, 1, "seed %d", seed)
		for _, s := range sinks {
			assert.Equal(t, merge, g.Predecessors(s))
			assert.Zero(t, g.OutDegree(s))
		}

		in := regularIn(g, merge[0])
		assert.Len(t, in, 3)
		node, _ := g.Node(merge[0])
		assert.Equal(t, dag.Untagged, node.Type)
		for _, e := range g.IndirectEdges() {
			assert.NotEqual(t, merge[0], e.To, "merge node must not close a fork")
		}
	}
}

func TestBuild_EarlyTerminationOneStopsAfterFirstLevel(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.ForkDepth = config.Scalar(4)
	m.NrFork = config.List(1, 4)
	m.EarlyTerminationProb = config.Scalar(1)

	for seed := range uint64(20) {
		g := buildOne(t, m, seed)

		indirect := g.IndirectEdges()
		require.Len(t, indirect, 1)
		assert.Equal(t, 0, indirect[0].From)

		join := indirect[0].To
		for _, child := range g.Successors(0) {
			if child == join {
				continue
			}
			assert.Equal(t, []int{join}, g.Successors(child))
		}
	}
}

func TestBuild_ZeroSinksSampledFails(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSinkNodes = config.List(0, 0)
	b, err := NewForkJoin(m, rng.New(1))
	require.NoError(t, err)

	var graphs int
	for g, err := range b.Build(testContext(t)) {
		require.Nil(t, g)
		var failed *BuildFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, 0, failed.DAG)
		assert.Contains(t, failed.Reason, "sampled 0 sink nodes")
		graphs++
	}
	assert.Equal(t, 1, graphs)
}

func TestBuild_MultipleSinksAreNewNodes(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSinkNodes = config.Scalar(3)
	g := buildOne(t, m, 1)

	require.Equal(t, 7, g.NodeCount())
	assert.Equal(t, []int{4, 5, 6}, g.NodesOfType(dag.Sink))
	for _, s := range []int{4, 5, 6} {
		assert.Equal(t, []int{3}, g.Predecessors(s))
	}
	join, _ := g.Node(3)
	assert.Equal(t, dag.Untagged, join.Type)
}

func TestBuild_WithoutSinkConfigLeavesOutputUntagged(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSinkNodes = config.Option{}
	g := buildOne(t, m, 1)

	assert.Empty(t, g.NodesOfType(dag.Sink))
	assert.Equal(t, 4, g.NodeCount())
}

func TestBuild_IDsRestartForEveryDAG(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfDAGs = 4
	m.ForkDepth = config.Scalar(3)
	m.NrFork = config.List(1, 3)
	m.EarlyTerminationProb = config.Scalar(0.4)

	graphs := buildAll(t, m, 99)
	require.Len(t, graphs, 4)
	for _, g := range graphs {
		for i, n := range g.Nodes() {
			require.Equal(t, i, n.ID)
		}
	}
}

func TestBuild_ConsumerMayStopEarly(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfDAGs = 10
	src := &countingSource{Source: rng.New(3)}
	m.NrFork = config.List(1, 3)
	b, err := NewForkJoin(m, src)
	require.NoError(t, err)

	seen := 0
	for g, err := range b.Build(testContext(t)) {
		require.NoError(t, err)
		require.NotNil(t, g)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	// One fork per DAG, one width draw each: nothing ran past the second DAG.
	assert.Equal(t, 2, src.draws)
}

func TestBuild_ZeroSampledSourcesFails(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfSourceNodes = config.Scalar(0)
	b, err := NewForkJoin(m, rng.New(1))
	require.NoError(t, err)

	var got []error
	for g, err := range b.Build(testContext(t)) {
		assert.Nil(t, g)
		got = append(got, err)
	}
	require.Len(t, got, 1)
	var failed *BuildFailedError
	require.True(t, errors.As(got[0], &failed))
	assert.Equal(t, 0, failed.DAG)
	assert.ErrorContains(t, got[0], "sampled 0 source nodes")
}

type graphSnapshot struct {
	Nodes []dag.Node
	Edges []dag.Edge
}

func snapshot(g *dag.Graph) graphSnapshot {
	var s graphSnapshot
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, *n)
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, *e)
	}
	return s
}

func TestBuild_SameSeedSameGraphs(t *testing.T) {
	t.Parallel()

	m := baseModel()
	m.NumberOfDAGs = 5
	m.ForkDepth = config.List(2, 4)
	m.NrFork = config.List(1, 4)
	m.EarlyTerminationProb = config.List(0.1, 0.5)
	m.NumberOfSourceNodes = config.List(1, 2, 3)
	m.NumberOfSinkNodes = config.List(1, 2)

	first := buildAll(t, m, 2024)
	second := buildAll(t, m, 2024)
	require.Len(t, second, len(first))
	for i := range first {
		if diff := cmp.Diff(snapshot(first[i]), snapshot(second[i])); diff != "" {
			t.Fatalf("dag %d differs between identical seeds (-first +second):\n%s", i, diff)
		}
	}
}

func TestNew_SelectsBuilderByMethod(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	b, err := New(ctx, baseModel(), rng.New(1))
	require.NoError(t, err)
	assert.IsType(t, &ForkJoin{}, b)

	m := baseModel()
	m.GenerationMethod = "layered"
	_, err = New(ctx, m, rng.New(1))
	assert.ErrorContains(t, err, `unknown generation method "layered"`)
}
