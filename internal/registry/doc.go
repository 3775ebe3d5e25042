// Package registry discovers Nepeta packages under an extensions root,
// loads each package's manifest, and holds the resulting descriptors and the
// single active theme. A Registry is built once at startup, frozen, and read
// by the host for the rest of the process lifetime.
package registry
