// Package scaffold generates new Nepeta packages from embedded templates. It
// powers the "nepeta create" command, writing a package directory with a
// manifest.json (and, for themes, a starter template set) and validating the
// generated manifest against the manifest schema.
package scaffold
