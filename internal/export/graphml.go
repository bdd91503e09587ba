package export

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/vk/fjgen/internal/dag"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type graphMLDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Data        []graphMLData `xml:"data"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

var graphMLKeys = []graphMLKey{
	{ID: "deadline", For: "graph", AttrName: "deadline", AttrType: "double"},
	{ID: "period", For: "graph", AttrName: "period", AttrType: "double"},
	{ID: "utilization", For: "graph", AttrName: "utilization", AttrType: "double"},
	{ID: "type", For: "node", AttrName: "type", AttrType: "string"},
	{ID: "execution_time", For: "node", AttrName: "execution_time", AttrType: "int"},
	{ID: "node_period", For: "node", AttrName: "period", AttrType: "int"},
	{ID: "end_to_end_deadline", For: "node", AttrName: "end_to_end_deadline", AttrType: "int"},
	{ID: "indirect", For: "edge", AttrName: "indirect", AttrType: "boolean"},
	{ID: "communication_time", For: "edge", AttrName: "communication_time", AttrType: "int"},
}

func encodeGraphML(name string, g *dag.Graph) ([]byte, error) {
	doc := graphMLDoc{
		Xmlns: graphMLNamespace,
		Keys:  graphMLKeys,
		Graph: graphMLGraph{ID: name, EdgeDefault: "directed"},
	}

	float := func(key string, v float64) {
		if v > 0 {
			doc.Graph.Data = append(doc.Graph.Data, graphMLData{key, strconv.FormatFloat(v, 'g', -1, 64)})
		}
	}
	float("deadline", g.Deadline)
	float("period", g.Period)
	float("utilization", g.Utilization)

	for _, n := range g.Nodes() {
		node := graphMLNode{ID: strconv.Itoa(n.ID)}
		if n.Type != dag.Untagged {
			node.Data = append(node.Data, graphMLData{"type", string(n.Type)})
		}
		node.Data = append(node.Data, graphMLData{"execution_time", strconv.Itoa(n.ExecutionTime)})
		if n.Period > 0 {
			node.Data = append(node.Data, graphMLData{"node_period", strconv.Itoa(n.Period)})
		}
		if n.Deadline > 0 {
			node.Data = append(node.Data, graphMLData{"end_to_end_deadline", strconv.Itoa(n.Deadline)})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}

	for _, e := range g.Edges() {
		edge := graphMLEdge{
			Source: strconv.Itoa(e.From),
			Target: strconv.Itoa(e.To),
			Data:   []graphMLData{{"indirect", strconv.FormatBool(e.Indirect)}},
		}
		if e.CommunicationTime > 0 {
			edge.Data = append(edge.Data, graphMLData{"communication_time", strconv.Itoa(e.CommunicationTime)})
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
