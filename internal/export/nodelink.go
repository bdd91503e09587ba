package export

import (
	"bytes"
	"encoding/json"

	"github.com/vk/fjgen/internal/dag"
	"gopkg.in/yaml.v3"
)

// nodeLinkDoc is the node-link layout understood by common graph tooling.
type nodeLinkDoc struct {
	Directed   bool           `json:"directed" yaml:"directed"`
	Multigraph bool           `json:"multigraph" yaml:"multigraph"`
	Graph      nodeLinkGraph  `json:"graph" yaml:"graph"`
	Nodes      []nodeLinkNode `json:"nodes" yaml:"nodes"`
	Links      []nodeLinkLink `json:"links" yaml:"links"`
}

type nodeLinkGraph struct {
	Name        string  `json:"name" yaml:"name"`
	Deadline    float64 `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Period      float64 `json:"period,omitempty" yaml:"period,omitempty"`
	Utilization float64 `json:"utilization,omitempty" yaml:"utilization,omitempty"`
}

type nodeLinkNode struct {
	ID               int    `json:"id" yaml:"id"`
	Type             string `json:"type,omitempty" yaml:"type,omitempty"`
	ExecutionTime    int    `json:"execution_time" yaml:"execution_time"`
	Period           int    `json:"period,omitempty" yaml:"period,omitempty"`
	EndToEndDeadline int    `json:"end_to_end_deadline,omitempty" yaml:"end_to_end_deadline,omitempty"`
}

type nodeLinkLink struct {
	Source            int  `json:"source" yaml:"source"`
	Target            int  `json:"target" yaml:"target"`
	Indirect          bool `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	CommunicationTime int  `json:"communication_time,omitempty" yaml:"communication_time,omitempty"`
}

func newNodeLinkDoc(name string, g *dag.Graph) nodeLinkDoc {
	doc := nodeLinkDoc{
		Directed: true,
		Graph: nodeLinkGraph{
			Name:        name,
			Deadline:    g.Deadline,
			Period:      g.Period,
			Utilization: g.Utilization,
		},
		Nodes: make([]nodeLinkNode, 0, g.NodeCount()),
		Links: make([]nodeLinkLink, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeLinkNode{
			ID:               n.ID,
			Type:             string(n.Type),
			ExecutionTime:    n.ExecutionTime,
			Period:           n.Period,
			EndToEndDeadline: n.Deadline,
		})
	}
	for _, e := range g.Edges() {
		doc.Links = append(doc.Links, nodeLinkLink{
			Source:            e.From,
			Target:            e.To,
			Indirect:          e.Indirect,
			CommunicationTime: e.CommunicationTime,
		})
	}
	return doc
}

func encodeNodeLinkYAML(name string, g *dag.Graph) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newNodeLinkDoc(name, g)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNodeLinkJSON(name string, g *dag.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(newNodeLinkDoc(name, g), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
