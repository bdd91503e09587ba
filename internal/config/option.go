package config

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/fjgen/internal/rng"
)

// Option is a parameter that is either a single value or a list of values.
//
// The list is interpreted by the accessor: Min/Max treat it as a bound,
// Choice treats it as an explicit set of candidates, and UniformInt treats
// it as an inclusive [min,max] integer range. The zero Option is unset.
type Option struct {
	values []float64
}

// Scalar returns an Option holding exactly one value.
func Scalar(v float64) Option {
	return Option{values: []float64{v}}
}

// List returns an Option holding the given values in order.
func List(values ...float64) Option {
	return Option{values: slices.Clone(values)}
}

// IsSet reports whether the option carries at least one value.
func (o Option) IsSet() bool {
	return len(o.values) > 0
}

// IsScalar reports whether the option carries exactly one value.
func (o Option) IsScalar() bool {
	return len(o.values) == 1
}

// Values returns a copy of the configured values.
func (o Option) Values() []float64 {
	return slices.Clone(o.values)
}

// Min returns the smallest configured value, or 0 if unset.
func (o Option) Min() float64 {
	if !o.IsSet() {
		return 0
	}
	return slices.Min(o.values)
}

// Max returns the largest configured value, or 0 if unset.
func (o Option) Max() float64 {
	if !o.IsSet() {
		return 0
	}
	return slices.Max(o.values)
}

// MinInt is Min truncated to an int.
func (o Option) MinInt() int { return int(o.Min()) }

// MaxInt is Max truncated to an int.
func (o Option) MaxInt() int { return int(o.Max()) }

// MinIntOr returns MinInt, or def when the option is unset or its minimum is zero.
func (o Option) MinIntOr(def int) int {
	if v := o.MinInt(); v != 0 {
		return v
	}
	return def
}

// Choice picks one of the configured values uniformly.
// A scalar option returns its value without drawing.
func (o Option) Choice(r rng.Source) float64 {
	switch len(o.values) {
	case 0:
		return 0
	case 1:
		return o.values[0]
	}
	return o.values[r.IntN(len(o.values))]
}

// ChoiceInt is Choice truncated to an int.
func (o Option) ChoiceInt(r rng.Source) int {
	return int(o.Choice(r))
}

// UniformInt draws an int uniformly from [MinInt, MaxInt].
// When the bounds coincide no draw is made.
func (o Option) UniformInt(r rng.Source) int {
	lo, hi := o.MinInt(), o.MaxInt()
	if lo >= hi {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// IsIntegral reports whether every configured value is a whole number.
func (o Option) IsIntegral() bool {
	for _, v := range o.values {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String renders the option the way it would be written in a config file.
func (o Option) String() string {
	switch len(o.values) {
	case 0:
		return "<unset>"
	case 1:
		return strconv.FormatFloat(o.values[0], 'g', -1, 64)
	}
	parts := make([]string, len(o.values))
	for i, v := range o.values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
