// Package cli defines the Cobra command tree for the nepeta CLI. Each file
// in this package registers one top-level command (list, info, theme, etc.)
// with the root command. Commands delegate to the registry, manifest and
// scaffold packages and only handle flag parsing and output formatting.
package cli
