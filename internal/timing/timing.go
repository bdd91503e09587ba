// Package timing attaches execution, communication and graph-level timing
// parameters to generated graphs.
//
// Assign is run once per graph, right after the builder yields it, and draws
// from the same random source as the builder. Draw order is fixed: node
// execution times by ascending id, then communication times of regular edges
// in creation order, then the graph-level parameters.
package timing

import (
	"math"

	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/dag"
	"github.com/vk/fjgen/internal/rng"
)

// Assign fills in the timing attributes of g from model. Options that are
// not set leave the corresponding attributes at zero.
//
// With graph_utilization the graph carries only its utilization; deadline
// and period are derived from the execution volume at export. With
// graph_deadline and graph_period both values are picked, every source node
// is released with the graph period and every sink node carries the graph
// deadline as its end-to-end deadline.
func Assign(g *dag.Graph, model *config.Model, src rng.Source) {
	if model.ExecutionTime.IsSet() {
		for _, n := range g.Nodes() {
			n.ExecutionTime = model.ExecutionTime.UniformInt(src)
		}
	}

	if model.CommunicationTime.IsSet() {
		for _, e := range g.RegularEdges() {
			e.CommunicationTime = model.CommunicationTime.UniformInt(src)
		}
	}

	if model.GraphUtilization.IsSet() {
		g.Utilization = model.GraphUtilization.Choice(src)
		return
	}
	if !model.GraphDeadline.IsSet() || !model.GraphPeriod.IsSet() {
		return
	}

	g.Deadline = model.GraphDeadline.Choice(src)
	g.Period = model.GraphPeriod.Choice(src)
	for _, id := range g.NodesOfType(dag.Source) {
		n, _ := g.Node(id)
		n.Period = int(math.Round(g.Period))
	}
	for _, id := range g.NodesOfType(dag.Sink) {
		n, _ := g.Node(id)
		n.Deadline = int(math.Round(g.Deadline))
	}
}

// DeadlineAndPeriod returns the relative deadline and period of g. Explicit
// graph values win; otherwise both equal the execution volume divided by the
// utilization, rounded to two decimals. ok is false when neither is known.
func DeadlineAndPeriod(g *dag.Graph) (deadline, period float64, ok bool) {
	if g.Deadline > 0 && g.Period > 0 {
		return g.Deadline, g.Period, true
	}
	if g.Utilization <= 0 {
		return 0, 0, false
	}
	v := math.Round(float64(g.TotalExecutionTime())/g.Utilization*100) / 100
	return v, v, true
}
