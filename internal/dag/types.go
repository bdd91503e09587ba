package dag

// NodeType tags the role of a node. The zero value is an ordinary
// fork/join node.
type NodeType string

const (
	// Untagged marks an ordinary fork, join or merge node.
	Untagged NodeType = ""
	// Source marks an entry node of the graph.
	Source NodeType = "source"
	// Sink marks an exit node of the graph.
	Sink NodeType = "sink"
)

// Node is a single task of the workload.
type Node struct {
	// ID is unique within its graph and assigned in creation order.
	ID int
	// Type is the node's source/sink tag.
	Type NodeType

	// ExecutionTime is the worst-case execution time. Zero means unset.
	ExecutionTime int
	// Period is the activation period of timer-driven nodes. Zero means unset.
	Period int
	// Deadline is an end-to-end deadline attached to the node. Zero means unset.
	Deadline int
}

// Edge is a directed edge between two nodes.
type Edge struct {
	From int
	To   int
	// Indirect marks the structural pairing of a fork with its join. It is
	// not an execution dependency of its own.
	Indirect bool
	// CommunicationTime is the data transfer cost of a regular edge. Zero means unset.
	CommunicationTime int
}

// edgeKey identifies an edge by its ordered endpoint pair.
type edgeKey struct {
	from, to int
}

// Graph is a collection of nodes and their edges, representing a DAG.
type Graph struct {
	// nodes stores all nodes, keyed by id.
	nodes map[int]*Node
	// order lists node ids in creation order.
	order []int
	// maxID is the largest id ever added, -1 for an empty graph.
	maxID int

	edges     map[edgeKey]*Edge
	edgeOrder []edgeKey
	succ      map[int][]int
	pred      map[int][]int

	// Deadline, Period and Utilization are graph-level timing parameters
	// attached after generation. Zero means unset.
	Deadline    float64
	Period      float64
	Utilization float64
}
