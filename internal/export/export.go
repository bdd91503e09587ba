// Package export serializes generated graphs and renders their figures.
//
// Every enabled format produces one artifact per graph, named after the
// graph's zero-padded index, and hands it to a filestore.Store. Exporting
// never changes the structure of a graph; the one exception to "read only"
// is the schedule format, which zeroes the execution time of source and
// sink nodes before any artifact of that graph is written.
package export

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/vk/fjgen/internal/dag"
	"github.com/vk/fjgen/internal/filestore"
)

// Description format names accepted in output.formats.
const (
	FormatYAML         = "yaml"
	FormatJSON         = "json"
	FormatDOT          = "dot"
	FormatXML          = "xml"
	FormatScheduleYAML = "schedule_yaml"
)

// encoder renders a graph named name into one artifact.
type encoder struct {
	suffix string
	encode func(name string, g *dag.Graph) ([]byte, error)
}

var encoders = map[string]encoder{
	FormatYAML:         {suffix: ".yaml", encode: encodeNodeLinkYAML},
	FormatJSON:         {suffix: ".json", encode: encodeNodeLinkJSON},
	FormatDOT:          {suffix: ".dot", encode: encodeDOT},
	FormatXML:          {suffix: ".xml", encode: encodeGraphML},
	FormatScheduleYAML: {suffix: "_schedule.yaml", encode: encodeSchedule},
}

// Exporter writes the configured artifacts of each graph to a store.
type Exporter struct {
	store   filestore.Store
	out     config.Output
	digits  int
	zeroEnd bool
}

// New checks the configured format names and returns an exporter for a run
// of count graphs.
func New(store filestore.Store, out config.Output, count int) (*Exporter, error) {
	for _, f := range out.Formats {
		if _, ok := encoders[f]; !ok {
			return nil, fmt.Errorf("unknown output format %q", f)
		}
	}
	for _, f := range out.Figures {
		if !slices.Contains(figureFormats, f) {
			return nil, fmt.Errorf("unknown figure format %q", f)
		}
	}

	return &Exporter{
		store:   store,
		out:     out,
		digits:  len(strconv.Itoa(max(count-1, 0))),
		zeroEnd: slices.Contains(out.Formats, FormatScheduleYAML),
	}, nil
}

// Name returns the base file name of the graph at index.
func (e *Exporter) Name(index int) string {
	padded := fmt.Sprintf("%0*d", e.digits, index)
	if e.out.NamePrefix == "" {
		return padded
	}
	return e.out.NamePrefix + "_" + padded
}

// Export writes every enabled description and figure of g and returns the
// locations written, in write order.
func (e *Exporter) Export(ctx context.Context, index int, g *dag.Graph) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	name := e.Name(index)

	if e.zeroEnd {
		ZeroEndpointExecutionTimes(g)
	}

	var written []string
	put := func(file string, data []byte) error {
		if err := e.store.Put(ctx, file, data); err != nil {
			return err
		}
		loc := e.store.Location(file)
		logger.Debug("Artifact written.", "dag", index, "location", loc)
		written = append(written, loc)
		return nil
	}

	for _, f := range e.out.Formats {
		enc := encoders[f]
		data, err := enc.encode(name, g)
		if err != nil {
			return written, fmt.Errorf("failed to encode %s as %s: %w", name, f, err)
		}
		if err := put(name+enc.suffix, data); err != nil {
			return written, err
		}
	}

	for _, f := range e.out.Figures {
		data, err := renderFigure(g, f, e.out.DrawLegend)
		if err != nil {
			return written, fmt.Errorf("failed to render %s figure of %s: %w", f, name, err)
		}
		if err := put(name+"."+f, data); err != nil {
			return written, err
		}
	}

	return written, nil
}

// ZeroEndpointExecutionTimes sets the execution time of every source and
// sink node to zero, turning them into pure release and completion markers.
func ZeroEndpointExecutionTimes(g *dag.Graph) {
	for _, n := range g.Nodes() {
		if n.Type == dag.Source || n.Type == dag.Sink {
			n.ExecutionTime = 0
		}
	}
}
