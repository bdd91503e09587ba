package hcl

import (
	"math"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/fjgen/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Sample returns a small, feasible configuration exercising every output
// format.
func Sample() *config.Model {
	seed := uint64(1)
	return &config.Model{
		GenerationMethod:     config.MethodForkJoin,
		Seed:                 &seed,
		NumberOfDAGs:         10,
		ForkDepth:            config.List(2, 4),
		NrFork:               config.List(2, 3),
		EarlyTerminationProb: config.List(0, 0.3),
		NumberOfNodes:        config.Scalar(60),
		NumberOfSourceNodes:  config.Scalar(1),
		NumberOfSinkNodes:    config.List(1, 3),
		ExecutionTime:        config.List(1, 20),
		CommunicationTime:    config.List(1, 5),
		GraphUtilization:     config.Scalar(0.6),
		Output: config.Output{
			Destination: DefaultDestination,
			NamePrefix:  DefaultNamePrefix,
			Formats:     []string{"yaml", "json", "dot", "xml", "schedule_yaml"},
			Figures:     []string{"png", "svg"},
			DrawLegend:  true,
		},
	}
}

// Encode renders m as an HCL configuration file that Load reads back into
// an equivalent model.
func Encode(m *config.Model) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("generation_method", cty.StringVal(m.GenerationMethod))
	if m.Seed != nil {
		body.SetAttributeValue("seed", cty.NumberUIntVal(*m.Seed))
	}
	body.SetAttributeValue("number_of_dags", cty.NumberIntVal(int64(m.NumberOfDAGs)))
	body.AppendNewline()

	options := []struct {
		name string
		opt  config.Option
	}{
		{"fork_depth", m.ForkDepth},
		{"nr_fork", m.NrFork},
		{"early_termination_prob", m.EarlyTerminationProb},
		{"number_of_nodes", m.NumberOfNodes},
		{"number_of_source_nodes", m.NumberOfSourceNodes},
		{"number_of_sink_nodes", m.NumberOfSinkNodes},
		{"execution_time", m.ExecutionTime},
		{"communication_time", m.CommunicationTime},
		{"graph_deadline", m.GraphDeadline},
		{"graph_period", m.GraphPeriod},
		{"graph_utilization", m.GraphUtilization},
	}
	for _, o := range options {
		if o.opt.IsSet() {
			body.SetAttributeValue(o.name, optionValue(o.opt))
		}
	}
	body.AppendNewline()

	out := body.AppendNewBlock("output", nil).Body()
	out.SetAttributeValue("destination", cty.StringVal(m.Output.Destination))
	out.SetAttributeValue("name_prefix", cty.StringVal(m.Output.NamePrefix))
	if len(m.Output.Formats) > 0 {
		out.SetAttributeValue("formats", stringList(m.Output.Formats))
	}
	if len(m.Output.Figures) > 0 {
		out.SetAttributeValue("figures", stringList(m.Output.Figures))
	}
	if m.Output.DrawLegend {
		out.SetAttributeValue("draw_legend", cty.True)
	}
	// Static credentials are never written out.
	if s3 := m.Output.S3; s3.Region != "" || s3.Profile != "" || s3.Endpoint != "" || s3.ForcePathStyle {
		sb := out.AppendNewBlock("s3", nil).Body()
		for _, kv := range []struct{ k, v string }{
			{"region", s3.Region},
			{"profile", s3.Profile},
			{"endpoint", s3.Endpoint},
		} {
			if kv.v != "" {
				sb.SetAttributeValue(kv.k, cty.StringVal(kv.v))
			}
		}
		if s3.ForcePathStyle {
			sb.SetAttributeValue("force_path_style", cty.True)
		}
	}

	return hclwrite.Format(f.Bytes())
}

func optionValue(o config.Option) cty.Value {
	values := o.Values()
	if len(values) == 1 {
		return number(values[0])
	}
	elems := make([]cty.Value, len(values))
	for i, v := range values {
		elems[i] = number(v)
	}
	return cty.TupleVal(elems)
}

func number(v float64) cty.Value {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return cty.NumberIntVal(int64(v))
	}
	return cty.NumberFloatVal(v)
}

func stringList(values []string) cty.Value {
	elems := make([]cty.Value, len(values))
	for i, v := range values {
		elems[i] = cty.StringVal(v)
	}
	return cty.TupleVal(elems)
}
