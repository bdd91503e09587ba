package export

import (
	"bytes"
	"fmt"

	"github.com/vk/fjgen/internal/dag"
	"github.com/vk/fjgen/internal/timing"
	"gopkg.in/yaml.v3"
)

// scheduleDoc is the task-set layout consumed by DAG schedulers: one task
// per graph with its relative deadline d, period t and vertex costs c.
type scheduleDoc struct {
	Tasks []scheduleTask `yaml:"tasks"`
}

type scheduleTask struct {
	D             float64          `yaml:"d"`
	T             float64          `yaml:"t"`
	Vertices      []scheduleVertex `yaml:"vertices"`
	Edges         []scheduleEdge   `yaml:"edges"`
	IndirectEdges []scheduleEdge   `yaml:"indirect_edges"`
}

type scheduleVertex struct {
	ID int `yaml:"id"`
	C  int `yaml:"c"`
}

type scheduleEdge struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

func encodeSchedule(name string, g *dag.Graph) ([]byte, error) {
	d, t, ok := timing.DeadlineAndPeriod(g)
	if !ok {
		return nil, fmt.Errorf("graph %s has neither deadline and period nor utilization", name)
	}

	task := scheduleTask{
		D:             d,
		T:             t,
		Vertices:      make([]scheduleVertex, 0, g.NodeCount()),
		Edges:         []scheduleEdge{},
		IndirectEdges: []scheduleEdge{},
	}
	for _, n := range g.Nodes() {
		c := n.ExecutionTime
		if n.Type == dag.Source || n.Type == dag.Sink {
			c = 0
		}
		task.Vertices = append(task.Vertices, scheduleVertex{ID: n.ID, C: c})
	}
	for _, e := range g.Edges() {
		if e.Indirect {
			task.IndirectEdges = append(task.IndirectEdges, scheduleEdge{e.From, e.To})
		} else {
			task.Edges = append(task.Edges, scheduleEdge{e.From, e.To})
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(scheduleDoc{Tasks: []scheduleTask{task}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
