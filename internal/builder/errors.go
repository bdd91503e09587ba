package builder

import (
	"fmt"
	"strings"
)

// InfeasibleConfigError reports that no valid graph can be produced from a
// configuration. It is raised before generation starts and is always fatal.
type InfeasibleConfigError struct {
	// Reasons holds one entry per failed check.
	Reasons []string
}

// Error implements the error interface for InfeasibleConfigError.
func (e *InfeasibleConfigError) Error() string {
	return "infeasible configuration: " + strings.Join(e.Reasons, "; ")
}

// BuildFailedError reports a violated invariant while generating one graph.
type BuildFailedError struct {
	// DAG is the zero-based index of the graph being generated.
	DAG    int
	Reason string
	Err    error
}

// Error implements the error interface for BuildFailedError.
func (e *BuildFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build of dag %d failed: %s: %v", e.DAG, e.Reason, e.Err)
	}
	return fmt.Sprintf("build of dag %d failed: %s", e.DAG, e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *BuildFailedError) Unwrap() error {
	return e.Err
}
