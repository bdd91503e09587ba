package dag

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[int]*Node),
		maxID: -1,
		edges: make(map[edgeKey]*Edge),
		succ:  make(map[int][]int),
		pred:  make(map[int][]int),
	}
}

// AddNode adds an untagged node with the given id and returns it. If a node
// with the same id already exists, that node is returned unchanged.
func (g *Graph) AddNode(id int) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	g.maxID = max(g.maxID, id)
	return n
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	ids := slices.Clone(g.order)
	slices.Sort(ids)
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges of both kinds.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddEdge creates a regular edge from fromID to toID, meaning toID cannot
// start before fromID finishes.
func (g *Graph) AddEdge(fromID, toID int) error {
	return g.addEdge(fromID, toID, false)
}

// AddIndirectEdge creates an indirect edge annotating that the join toID
// closes the fork opened at fromID.
func (g *Graph) AddIndirectEdge(fromID, toID int) error {
	return g.addEdge(fromID, toID, true)
}

func (g *Graph) addEdge(fromID, toID int, indirect bool) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", fromID, fromID)
	}
	if _, ok := g.nodes[fromID]; !ok {
		return fmt.Errorf("source node not found: %d", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("destination node not found: %d", toID)
	}
	key := edgeKey{fromID, toID}
	if _, ok := g.edges[key]; ok {
		return fmt.Errorf("edge already exists: %d -> %d", fromID, toID)
	}

	g.edges[key] = &Edge{From: fromID, To: toID, Indirect: indirect}
	g.edgeOrder = append(g.edgeOrder, key)
	g.succ[fromID] = append(g.succ[fromID], toID)
	g.pred[toID] = append(g.pred[toID], fromID)
	return nil
}

// Edge returns the edge from fromID to toID.
func (g *Graph) Edge(fromID, toID int) (*Edge, bool) {
	e, ok := g.edges[edgeKey{fromID, toID}]
	return e, ok
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, k := range g.edgeOrder {
		out[i] = g.edges[k]
	}
	return out
}

// RegularEdges returns the precedence edges in insertion order.
func (g *Graph) RegularEdges() []*Edge {
	return g.filterEdges(false)
}

// IndirectEdges returns the fork-to-join annotations in insertion order.
func (g *Graph) IndirectEdges() []*Edge {
	return g.filterEdges(true)
}

func (g *Graph) filterEdges(indirect bool) []*Edge {
	var out []*Edge
	for _, k := range g.edgeOrder {
		if e := g.edges[k]; e.Indirect == indirect {
			out = append(out, e)
		}
	}
	return out
}

// Successors returns the ids reachable over one outgoing edge of any kind.
func (g *Graph) Successors(id int) []int {
	return slices.Clone(g.succ[id])
}

// Predecessors returns the ids with an edge of any kind into id.
func (g *Graph) Predecessors(id int) []int {
	return slices.Clone(g.pred[id])
}

// InDegree counts incoming edges of any kind.
func (g *Graph) InDegree(id int) int { return len(g.pred[id]) }

// OutDegree counts outgoing edges of any kind.
func (g *Graph) OutDegree(id int) int { return len(g.succ[id]) }

// NodesOfType returns the ids tagged with t, ordered by id.
func (g *Graph) NodesOfType(t NodeType) []int {
	var out []int
	for _, n := range g.Nodes() {
		if n.Type == t {
			out = append(out, n.ID)
		}
	}
	return out
}

// TotalExecutionTime sums ExecutionTime over all nodes.
func (g *Graph) TotalExecutionTime() int {
	total := 0
	for _, n := range g.nodes {
		total += n.ExecutionTime
	}
	return total
}
