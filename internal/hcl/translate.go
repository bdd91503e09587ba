package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Defaults applied to attributes the file leaves out.
const (
	DefaultDestination = "out"
	DefaultNamePrefix  = "dag"
)

// translate converts the decoded file into the format-agnostic model. All
// attribute problems are reported together.
func translate(ctx context.Context, root *fileRoot) (*config.Model, error) {
	m := &config.Model{GenerationMethod: config.MethodForkJoin}
	var errs []error

	if val, ok, err := literal(ctx, root.GenerationMethod, "generation_method"); err != nil {
		errs = append(errs, err)
	} else if ok {
		if err := decodeScalar(val, cty.String, &m.GenerationMethod); err != nil {
			errs = append(errs, attrError("generation_method", root.GenerationMethod, err))
		}
	}

	if val, ok, err := literal(ctx, root.Seed, "seed"); err != nil {
		errs = append(errs, err)
	} else if ok {
		var seed uint64
		if err := decodeScalar(val, cty.Number, &seed); err != nil {
			errs = append(errs, attrError("seed", root.Seed, err))
		} else {
			m.Seed = &seed
		}
	}

	if val, ok, err := literal(ctx, root.NumberOfDAGs, "number_of_dags"); err != nil {
		errs = append(errs, err)
	} else if ok {
		if err := decodeScalar(val, cty.Number, &m.NumberOfDAGs); err != nil {
			errs = append(errs, attrError("number_of_dags", root.NumberOfDAGs, err))
		}
	}

	options := []struct {
		name   string
		expr   hcl.Expression
		target *config.Option
	}{
		{"fork_depth", root.ForkDepth, &m.ForkDepth},
		{"nr_fork", root.NrFork, &m.NrFork},
		{"early_termination_prob", root.EarlyTerminationProb, &m.EarlyTerminationProb},
		{"number_of_nodes", root.NumberOfNodes, &m.NumberOfNodes},
		{"number_of_source_nodes", root.NumberOfSourceNodes, &m.NumberOfSourceNodes},
		{"number_of_sink_nodes", root.NumberOfSinkNodes, &m.NumberOfSinkNodes},
		{"execution_time", root.ExecutionTime, &m.ExecutionTime},
		{"communication_time", root.CommunicationTime, &m.CommunicationTime},
		{"graph_deadline", root.GraphDeadline, &m.GraphDeadline},
		{"graph_period", root.GraphPeriod, &m.GraphPeriod},
		{"graph_utilization", root.GraphUtilization, &m.GraphUtilization},
	}
	for _, o := range options {
		val, ok, err := literal(ctx, o.expr, o.name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		opt, err := toOption(val)
		if err != nil {
			errs = append(errs, attrError(o.name, o.expr, err))
			continue
		}
		*o.target = opt
	}

	if !m.EarlyTerminationProb.IsSet() {
		m.EarlyTerminationProb = config.Scalar(0)
	}

	m.Output = translateOutput(root.Output)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func translateOutput(b *outputBlock) config.Output {
	out := config.Output{Destination: DefaultDestination, NamePrefix: DefaultNamePrefix}
	if b == nil {
		out.Formats = []string{"yaml"}
		return out
	}

	if b.Destination != "" {
		out.Destination = b.Destination
	}
	if b.NamePrefix != nil {
		out.NamePrefix = *b.NamePrefix
	}
	out.Formats = b.Formats
	out.Figures = b.Figures
	if out.Formats == nil && out.Figures == nil {
		out.Formats = []string{"yaml"}
	}
	out.DrawLegend = b.DrawLegend

	if b.S3 != nil {
		out.S3 = config.S3Options{
			Region:          b.S3.Region,
			Profile:         b.S3.Profile,
			Endpoint:        b.S3.Endpoint,
			ForcePathStyle:  b.S3.ForcePathStyle,
			AccessKeyID:     b.S3.AccessKeyID,
			SecretAccessKey: b.S3.SecretAccessKey,
			SessionToken:    b.S3.SessionToken,
		}
	}
	return out
}

// literal evaluates expr without an evaluation context. ok is false when
// the attribute was omitted or explicitly null.
func literal(ctx context.Context, expr hcl.Expression, attrName string) (cty.Value, bool, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return cty.NilVal, false, nil
	}
	if vars := expr.Variables(); len(vars) > 0 {
		return cty.NilVal, false, fmt.Errorf("%s (%s): only literal values are allowed, found a reference to %q",
			attrName, expr.Range(), vars[0].RootName())
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, false, fmt.Errorf("%s: %w", attrName, diags)
	}
	if val.IsNull() {
		return cty.NilVal, false, nil
	}
	return val, true, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// toOption converts a number or a non-empty list of numbers.
func toOption(val cty.Value) (config.Option, error) {
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		var f float64
		if err := decodeScalar(val, cty.Number, &f); err != nil {
			return config.Option{}, err
		}
		return config.Scalar(f), nil
	}

	if val.LengthInt() == 0 {
		return config.Option{}, errors.New("list must not be empty")
	}
	values := make([]float64, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		var f float64
		if err := decodeScalar(elem, cty.Number, &f); err != nil {
			return config.Option{}, fmt.Errorf("list element %d: %w", len(values), err)
		}
		values = append(values, f)
	}
	return config.List(values...), nil
}

// decodeScalar converts val to want and stores it in the Go value at target.
func decodeScalar(val cty.Value, want cty.Type, target any) error {
	converted, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	if converted.IsNull() {
		return errors.New("value must not be null")
	}
	return gocty.FromCtyValue(converted, target)
}

func attrError(name string, expr hcl.Expression, err error) error {
	return fmt.Errorf("%s (%s): %w", name, expr.Range(), err)
}
