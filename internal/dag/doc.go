// Package dag holds the task-graph container produced by the builders:
// nodes with dense integer ids and an optional source/sink tag, directed
// edges that are either regular precedence edges or indirect fork-to-join
// annotations, and the timing attributes later stages attach to both.
//
// It also provides the read-only analyses consumers need: cycle detection,
// a deterministic topological order, longest-path levels and the critical
// path. A Graph is not safe for concurrent mutation.
package dag
