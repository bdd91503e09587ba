package config

import (
	"errors"
	"fmt"
)

// MethodForkJoin selects the recursive fork-join builder.
const MethodForkJoin = "fork_join"

// Model is the unified, format-agnostic representation of a generation run.
type Model struct {
	// GenerationMethod names the builder to use, e.g. "fork_join".
	GenerationMethod string
	// Seed initializes the shared random source. Nil means "pick one".
	Seed *uint64
	// NumberOfDAGs is the exact number of graphs to generate.
	NumberOfDAGs int

	ForkDepth            Option
	NrFork               Option
	// EarlyTerminationProb defaults to 0, so an unset option never stops
	// a branch early.
	EarlyTerminationProb Option

	NumberOfNodes       Option
	NumberOfSourceNodes Option
	NumberOfSinkNodes   Option

	ExecutionTime     Option
	CommunicationTime Option

	GraphDeadline    Option
	GraphPeriod      Option
	GraphUtilization Option

	Output Output
}

// Output describes where and how generated graphs are written.
type Output struct {
	// Destination is a directory path or an s3://bucket/prefix URL.
	Destination string
	// NamePrefix is prepended to the zero-padded DAG index in file names.
	NamePrefix string
	// Formats lists description formats: yaml, json, dot, xml, schedule_yaml.
	Formats []string
	// Figures lists figure formats: png, svg, pdf, eps.
	Figures []string
	// DrawLegend adds a legend box to figures.
	DrawLegend bool
	// S3 tunes the client used for s3:// destinations.
	S3 S3Options
}

// S3Options configures access to an S3 or S3-compatible object store.
// Zero values fall back to the AWS default credential and region chain.
type S3Options struct {
	Region         string
	Profile        string
	Endpoint       string
	ForcePathStyle bool

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Validate checks value domains that do not depend on graph shape. Graph
// feasibility is the builder's concern. All problems are reported together.
func (m *Model) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if m.GenerationMethod == "" {
		add("generation_method must not be empty")
	}
	if m.NumberOfDAGs < 1 {
		add("number_of_dags must be at least 1, got %d", m.NumberOfDAGs)
	}

	required := []struct {
		name string
		opt  Option
	}{
		{"fork_depth", m.ForkDepth},
		{"nr_fork", m.NrFork},
	}
	for _, r := range required {
		if !r.opt.IsSet() {
			add("%s is required", r.name)
		}
	}

	counts := []struct {
		name string
		opt  Option
	}{
		{"fork_depth", m.ForkDepth},
		{"nr_fork", m.NrFork},
		{"number_of_nodes", m.NumberOfNodes},
		{"number_of_source_nodes", m.NumberOfSourceNodes},
		{"number_of_sink_nodes", m.NumberOfSinkNodes},
		{"execution_time", m.ExecutionTime},
		{"communication_time", m.CommunicationTime},
	}
	for _, c := range counts {
		if !c.opt.IsSet() {
			continue
		}
		if !c.opt.IsIntegral() {
			add("%s must hold whole numbers, got %s", c.name, c.opt)
		}
		if c.opt.Min() < 0 {
			add("%s must not be negative, got %s", c.name, c.opt)
		}
	}

	endpoints := []struct {
		name string
		opt  Option
	}{
		{"number_of_source_nodes", m.NumberOfSourceNodes},
		{"number_of_sink_nodes", m.NumberOfSinkNodes},
	}
	for _, e := range endpoints {
		if e.opt.IsSet() && e.opt.Min() < 1 {
			add("%s values must be at least 1, got %s", e.name, e.opt)
		}
	}

	positive := []struct {
		name string
		opt  Option
	}{
		{"graph_deadline", m.GraphDeadline},
		{"graph_period", m.GraphPeriod},
		{"graph_utilization", m.GraphUtilization},
	}
	for _, p := range positive {
		if p.opt.IsSet() && p.opt.Min() <= 0 {
			add("%s must be positive, got %s", p.name, p.opt)
		}
	}

	if m.Output.Destination == "" {
		add("output destination must not be empty")
	}
	if (m.Output.S3.AccessKeyID == "") != (m.Output.S3.SecretAccessKey == "") {
		add("s3 access_key_id and secret_access_key must be set together")
	}

	return errors.Join(errs...)
}
