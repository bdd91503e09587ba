package export

import (
	"fmt"
	"strconv"

	"github.com/vk/fjgen/internal/dag"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode is a dag node as seen by the DOT encoder.
type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64 { return n.id }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

// dotEdge carries the drawing attributes of one dag edge.
type dotEdge struct {
	from, to dotNode
	attrs    []encoding.Attribute
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, attrs: e.attrs} }
func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

// dotGraph adds graph-wide attributes to a simple directed graph.
type dotGraph struct {
	*simple.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return graphAttributes{{Key: "rankdir", Value: "LR"}}, nil, nil
}

type graphAttributes []encoding.Attribute

func (a graphAttributes) Attributes() []encoding.Attribute { return a }

func encodeDOT(name string, g *dag.Graph) ([]byte, error) {
	out := dotGraph{simple.NewDirectedGraph()}
	nodes := make(map[int]dotNode, g.NodeCount())
	for _, n := range g.Nodes() {
		dn := dotNode{
			id:    int64(n.ID),
			attrs: []encoding.Attribute{{Key: "label", Value: nodeLabel(n)}},
		}
		switch n.Type {
		case dag.Source:
			dn.attrs = append(dn.attrs, encoding.Attribute{Key: "shape", Value: "box"})
		case dag.Sink:
			dn.attrs = append(dn.attrs, encoding.Attribute{Key: "shape", Value: "doublecircle"})
		}
		nodes[n.ID] = dn
		out.AddNode(dn)
	}
	for _, e := range g.Edges() {
		de := dotEdge{from: nodes[e.From], to: nodes[e.To]}
		switch {
		case e.Indirect:
			de.attrs = []encoding.Attribute{
				{Key: "style", Value: "dashed"},
				{Key: "constraint", Value: "false"},
			}
		case e.CommunicationTime > 0:
			de.attrs = []encoding.Attribute{{Key: "label", Value: strconv.Itoa(e.CommunicationTime)}}
		}
		out.SetEdge(de)
	}

	data, err := dot.Marshal(out, name, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode DOT: %w", err)
	}
	return append(data, '\n'), nil
}

// nodeLabel renders "[i]", "C: x" and the optional "T: x" / "D: x" lines.
func nodeLabel(n *dag.Node) string {
	label := fmt.Sprintf("[%d]\nC: %d", n.ID, n.ExecutionTime)
	if n.Period > 0 {
		label += fmt.Sprintf("\nT: %d", n.Period)
	}
	if n.Deadline > 0 {
		label += fmt.Sprintf("\nD: %d", n.Deadline)
	}
	return label
}
