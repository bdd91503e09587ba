// Package config defines the format-agnostic configuration model of a
// generation run, the scalar-or-list Option value used by every tunable
// parameter, and the Loader interface implemented by concrete formats.
//
// The Model is the single source of truth for the builder, timing and
// export stages. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
