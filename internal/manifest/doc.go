// Package manifest reads and validates the manifest.json file that describes
// a Nepeta package: its identity, its type (theme or extension), where the
// host should insert its content, and the optional template set it supplies.
// Reading is a pure function of the filesystem; validation against the
// embedded JSON Schema is a separate, more verbose report used by tooling.
package manifest
