package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned by any mutation after Freeze.
	ErrFrozen = errors.New("registry is frozen")
	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("registry is closed")
	// ErrUnsafePackageName is returned for a package name that is not a
	// single path element inside the extensions root.
	ErrUnsafePackageName = errors.New("unsafe package name")
	// ErrThemeConflict is returned under ThemeExclusive when a second theme
	// with templates is loaded.
	ErrThemeConflict = errors.New("another theme is already active")
)

// LoadError carries the reason a named package failed to load.
type LoadError struct {
	Package string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading package %q: %v", e.Package, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
