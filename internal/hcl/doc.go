// Package hcl implements config.Loader for HCL files and for HCL's JSON
// syntax (files ending in .json). It also renders a config.Model back into
// HCL, which is how sample configuration files are produced.
//
// Every numeric generation parameter may be written as a scalar or as a
// list:
//
//	fork_depth = 3
//	nr_fork    = [2, 4]
//
// Only literal values are accepted; variables and function calls are
// rejected with a diagnostic pointing at the offending expression.
package hcl
