package export

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/vk/fjgen/internal/dag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure format names accepted in output.figures.
var figureFormats = []string{"png", "svg", "pdf", "eps"}

// layout places every node at x = its longest-path level and spreads the
// nodes of one level vertically, ordered by id.
func layout(g *dag.Graph) (map[int]plotter.XY, int, int, error) {
	levels, err := g.Levels()
	if err != nil {
		return nil, 0, 0, err
	}

	byLevel := map[int][]int{}
	maxLevel := 0
	for _, n := range g.Nodes() {
		l := levels[n.ID]
		byLevel[l] = append(byLevel[l], n.ID)
		maxLevel = max(maxLevel, l)
	}

	pos := make(map[int]plotter.XY, g.NodeCount())
	maxWidth := 0
	for l, ids := range byLevel {
		maxWidth = max(maxWidth, len(ids))
		for i, id := range ids {
			pos[id] = plotter.XY{X: float64(l), Y: float64(len(ids)-1)/2 - float64(i)}
		}
	}
	return pos, maxLevel, maxWidth, nil
}

func renderFigure(g *dag.Graph, format string, legend bool) ([]byte, error) {
	pos, maxLevel, maxWidth, err := layout(g)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White
	p.X.Min, p.X.Max = -0.5, float64(maxLevel)+1
	p.Y.Min, p.Y.Max = -float64(maxWidth)/2-0.5, float64(maxWidth)/2+0.5

	regular := draw.LineStyle{Color: color.Gray{64}, Width: vg.Points(0.8)}
	indirect := draw.LineStyle{
		Color:  color.Gray{160},
		Width:  vg.Points(0.8),
		Dashes: []vg.Length{vg.Points(4), vg.Points(3)},
	}
	var indirectLine *plotter.Line
	for _, e := range g.Edges() {
		l, err := plotter.NewLine(plotter.XYs{pos[e.From], pos[e.To]})
		if err != nil {
			return nil, err
		}
		l.LineStyle = regular
		if e.Indirect {
			l.LineStyle = indirect
			indirectLine = l
		}
		p.Add(l)
	}

	palette, err := brewer.GetPalette(brewer.TypeQualitative, "Set2", 3)
	if err != nil {
		return nil, err
	}
	colors := palette.Colors()
	groups := []struct {
		label string
		typ   dag.NodeType
		shape draw.GlyphDrawer
	}{
		{"source", dag.Source, draw.BoxGlyph{}},
		{"node", dag.Untagged, draw.CircleGlyph{}},
		{"sink", dag.Sink, draw.TriangleGlyph{}},
	}
	for i, grp := range groups {
		ids := g.NodesOfType(grp.typ)
		if len(ids) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(ids))
		for j, id := range ids {
			xys[j] = pos[id]
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: colors[i], Radius: vg.Points(6), Shape: grp.shape}
		p.Add(s)
		if legend {
			p.Legend.Add(grp.label, s)
		}
	}

	var (
		xys       plotter.XYs
		labels    []string
		hasPeriod bool
		hasDL     bool
	)
	for _, n := range g.Nodes() {
		xys = append(xys, pos[n.ID])
		labels = append(labels, nodeLabel(n))
		hasPeriod = hasPeriod || n.Period > 0
		hasDL = hasDL || n.Deadline > 0
	}
	text, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	text.Offset = vg.Point{X: vg.Points(8), Y: vg.Points(-4)}
	for i := range text.TextStyle {
		text.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(text)

	var (
		costXYs    plotter.XYs
		costLabels []string
	)
	for _, e := range g.RegularEdges() {
		if e.CommunicationTime == 0 {
			continue
		}
		from, to := pos[e.From], pos[e.To]
		costXYs = append(costXYs, plotter.XY{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2})
		costLabels = append(costLabels, fmt.Sprint(e.CommunicationTime))
	}
	if len(costXYs) > 0 {
		costs, err := plotter.NewLabels(plotter.XYLabels{XYs: costXYs, Labels: costLabels})
		if err != nil {
			return nil, err
		}
		for i := range costs.TextStyle {
			costs.TextStyle[i].Font.Size = vg.Points(6)
			costs.TextStyle[i].Color = color.Gray{96}
		}
		p.Add(costs)
	}

	if legend {
		if indirectLine != nil {
			p.Legend.Add("fork-join pairing", indirectLine)
		}
		p.Legend.Add("[i]: node id")
		p.Legend.Add("C: execution time")
		if hasPeriod {
			p.Legend.Add("T: period")
		}
		if hasDL {
			p.Legend.Add("D: end-to-end deadline")
		}
		if len(costXYs) > 0 {
			p.Legend.Add("edge: communication time")
		}
		p.Legend.Top = true
		p.Legend.Left = true
		p.Legend.Padding = 1 * vg.Millimeter
	}

	width := max(vg.Length(maxLevel+2)*1.2*vg.Inch, 4*vg.Inch)
	height := max(vg.Length(maxWidth+1)*0.9*vg.Inch, 3*vg.Inch)
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("unsupported figure format %q: %w", format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
