package dag

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/addrummond/heap"
	"github.com/bits-and-blooms/bitset"
	"github.com/gammazero/deque"
)

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// naming the first node found on a cycle.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with two sets of nodes:
	// permanent: fully visited and known not to be part of a cycle.
	// temporary: on the current recursion stack.
	size := uint(g.maxID + 1)
	permanent := bitset.New(size)
	temporary := bitset.New(size)

	var visit func(id int) error
	visit = func(id int) error {
		if permanent.Test(uint(id)) {
			return nil
		}
		if temporary.Test(uint(id)) {
			return fmt.Errorf("cycle detected involving node %d", id)
		}

		temporary.Set(uint(id))
		for _, next := range g.succ[id] {
			if err := visit(next); err != nil {
				return err
			}
		}
		temporary.Clear(uint(id))
		permanent.Set(uint(id))
		return nil
	}

	for _, n := range g.Nodes() {
		if err := visit(n.ID); err != nil {
			return err
		}
	}
	return nil
}

// readyNode is a heap entry for a node whose predecessors are all ordered.
type readyNode struct {
	id int
}

func (a *readyNode) Cmp(b *readyNode) int {
	return cmp.Compare(a.id, b.id)
}

// TopologicalOrder returns every node id such that each edge points forward.
// Among nodes that are ready at the same time the smallest id comes first,
// so the order is a pure function of the graph.
func (g *Graph) TopologicalOrder() ([]int, error) {
	indeg := make(map[int]int, len(g.nodes))
	var ready heap.Heap[readyNode, heap.Min]
	for id := range g.nodes {
		indeg[id] = len(g.pred[id])
		if indeg[id] == 0 {
			heap.PushOrderable(&ready, readyNode{id: id})
		}
	}

	order := make([]int, 0, len(g.nodes))
	for {
		n, ok := heap.PopOrderable(&ready)
		if !ok {
			break
		}
		order = append(order, n.id)
		for _, next := range g.succ[n.id] {
			indeg[next]--
			if indeg[next] == 0 {
				heap.PushOrderable(&ready, readyNode{id: next})
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("graph has a cycle: ordered %d of %d nodes", len(order), len(g.nodes))
	}
	return order, nil
}

// Levels returns the length of the longest edge path from any entry node to
// each node. Entry nodes are at level 0.
func (g *Graph) Levels() (map[int]int, error) {
	indeg := make(map[int]int, len(g.nodes))
	levels := make(map[int]int, len(g.nodes))
	var queue deque.Deque[int]
	for _, n := range g.Nodes() {
		indeg[n.ID] = len(g.pred[n.ID])
		if indeg[n.ID] == 0 {
			queue.PushBack(n.ID)
			levels[n.ID] = 0
		}
	}

	visited := 0
	for queue.Len() > 0 {
		id := queue.PopFront()
		visited++
		for _, next := range g.succ[id] {
			levels[next] = max(levels[next], levels[id]+1)
			indeg[next]--
			if indeg[next] == 0 {
				queue.PushBack(next)
			}
		}
	}

	if visited != len(g.nodes) {
		return nil, fmt.Errorf("graph has a cycle: levelled %d of %d nodes", visited, len(g.nodes))
	}
	return levels, nil
}

// CriticalPath returns the most expensive chain of regular edges, where a
// chain costs the execution time of its nodes plus the communication time of
// its edges. Indirect edges are ignored.
func (g *Graph) CriticalPath() (int, []int, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return 0, nil, err
	}
	if len(order) == 0 {
		return 0, nil, nil
	}

	cost := make(map[int]int, len(order))
	prev := make(map[int]int, len(order))
	for _, id := range order {
		cost[id] = g.nodes[id].ExecutionTime
		prev[id] = -1
	}
	for _, id := range order {
		for _, next := range g.succ[id] {
			e := g.edges[edgeKey{id, next}]
			if e.Indirect {
				continue
			}
			if c := cost[id] + e.CommunicationTime + g.nodes[next].ExecutionTime; c > cost[next] {
				cost[next] = c
				prev[next] = id
			}
		}
	}

	end := order[0]
	for _, id := range order {
		if cost[id] > cost[end] {
			end = id
		}
	}
	var path []int
	for id := end; id != -1; id = prev[id] {
		path = append(path, id)
	}
	slices.Reverse(path)
	return cost[end], path, nil
}

// Descendants returns the set of node ids reachable from id over one or
// more regular edges. id itself is not included unless it lies on a cycle.
func (g *Graph) Descendants(id int) *bitset.BitSet {
	seen := bitset.New(uint(g.maxID + 1))
	var queue deque.Deque[int]
	queue.PushBack(id)
	for queue.Len() > 0 {
		cur := queue.PopFront()
		for _, next := range g.succ[cur] {
			if g.edges[edgeKey{cur, next}].Indirect || seen.Test(uint(next)) {
				continue
			}
			seen.Set(uint(next))
			queue.PushBack(next)
		}
	}
	return seen
}
