package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	overrides []string
}

// NewLoader creates a new HCL configuration loader. Each override has the
// form name=expression and replaces the top-level attribute of that name,
// e.g. "fork_depth=[2, 5]".
func NewLoader(overrides ...string) *Loader {
	return &Loader{overrides: overrides}
}

// fileRoot is the top-level layout of a configuration file.
type fileRoot struct {
	GenerationMethod     hcl.Expression `hcl:"generation_method,optional"`
	Seed                 hcl.Expression `hcl:"seed,optional"`
	NumberOfDAGs         hcl.Expression `hcl:"number_of_dags,optional"`
	ForkDepth            hcl.Expression `hcl:"fork_depth,optional"`
	NrFork               hcl.Expression `hcl:"nr_fork,optional"`
	EarlyTerminationProb hcl.Expression `hcl:"early_termination_prob,optional"`
	NumberOfNodes        hcl.Expression `hcl:"number_of_nodes,optional"`
	NumberOfSourceNodes  hcl.Expression `hcl:"number_of_source_nodes,optional"`
	NumberOfSinkNodes    hcl.Expression `hcl:"number_of_sink_nodes,optional"`
	ExecutionTime        hcl.Expression `hcl:"execution_time,optional"`
	CommunicationTime    hcl.Expression `hcl:"communication_time,optional"`
	GraphDeadline        hcl.Expression `hcl:"graph_deadline,optional"`
	GraphPeriod          hcl.Expression `hcl:"graph_period,optional"`
	GraphUtilization     hcl.Expression `hcl:"graph_utilization,optional"`

	Output *outputBlock `hcl:"output,block"`
}

// attributes indexes the top-level expressions by attribute name.
func (r *fileRoot) attributes() map[string]*hcl.Expression {
	return map[string]*hcl.Expression{
		"generation_method":      &r.GenerationMethod,
		"seed":                   &r.Seed,
		"number_of_dags":         &r.NumberOfDAGs,
		"fork_depth":             &r.ForkDepth,
		"nr_fork":                &r.NrFork,
		"early_termination_prob": &r.EarlyTerminationProb,
		"number_of_nodes":        &r.NumberOfNodes,
		"number_of_source_nodes": &r.NumberOfSourceNodes,
		"number_of_sink_nodes":   &r.NumberOfSinkNodes,
		"execution_time":         &r.ExecutionTime,
		"communication_time":     &r.CommunicationTime,
		"graph_deadline":         &r.GraphDeadline,
		"graph_period":           &r.GraphPeriod,
		"graph_utilization":      &r.GraphUtilization,
	}
}

type outputBlock struct {
	Destination string   `hcl:"destination,optional"`
	NamePrefix  *string  `hcl:"name_prefix,optional"`
	Formats     []string `hcl:"formats,optional"`
	Figures     []string `hcl:"figures,optional"`
	DrawLegend  bool     `hcl:"draw_legend,optional"`
	S3          *s3Block `hcl:"s3,block"`
}

type s3Block struct {
	Region          string `hcl:"region,optional"`
	Profile         string `hcl:"profile,optional"`
	Endpoint        string `hcl:"endpoint,optional"`
	ForcePathStyle  bool   `hcl:"force_path_style,optional"`
	AccessKeyID     string `hcl:"access_key_id,optional"`
	SecretAccessKey string `hcl:"secret_access_key,optional"`
	SessionToken    string `hcl:"session_token,optional"`
}

// Load parses, translates and validates the configuration file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path, "overrides", len(l.overrides))

	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if err := l.applyOverrides(&root); err != nil {
		return nil, err
	}

	model, err := translate(ctx, &root)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.",
		"generation_method", model.GenerationMethod,
		"number_of_dags", model.NumberOfDAGs,
		"destination", model.Output.Destination,
	)
	return model, nil
}

func (l *Loader) applyOverrides(root *fileRoot) error {
	attrs := root.attributes()
	for _, o := range l.overrides {
		name, src, ok := strings.Cut(o, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("override %q must have the form name=value", o)
		}
		target, known := attrs[name]
		if !known {
			names := make([]string, 0, len(attrs))
			for n := range attrs {
				names = append(names, n)
			}
			slices.Sort(names)
			return fmt.Errorf("override %q names unknown attribute %q; known attributes: %s", o, name, strings.Join(names, ", "))
		}
		expr, diags := hclsyntax.ParseExpression([]byte(src), "override:"+name, hcl.InitialPos)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse override %q: %w", o, diags)
		}
		*target = expr
	}
	return nil
}
