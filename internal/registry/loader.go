package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nepeta-labs/nepeta/internal/manifest"
)

// LoadPackage loads the package directory name under the extensions root
// and registers its descriptor. On failure the registry is left unchanged
// and the returned error is a *LoadError.
//
// A descriptor whose id is already registered replaces the earlier one.
// A theme with templates becomes the active theme as ThemePolicy allows.
func (r *Registry) LoadPackage(name string) (Outcome, error) {
	if _, err := r.load(name); err != nil {
		return Failed, err
	}
	return Success, nil
}

// load is LoadPackage returning the registered descriptor.
func (r *Registry) load(name string) (*manifest.Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writable(); err != nil {
		return nil, &LoadError{Package: name, Err: err}
	}

	d, err := r.readPackage(name)
	if err != nil {
		r.log.Warn().Str("package", name).Err(err).Msg("package failed to load")
		return nil, &LoadError{Package: name, Err: err}
	}

	activate, err := r.selectTheme(d)
	if err != nil {
		r.log.Warn().Str("package", name).Err(err).Msg("theme rejected")
		return nil, &LoadError{Package: name, Err: err}
	}

	if prev, ok := r.loaded[d.ID]; ok {
		r.log.Debug().
			Str("id", d.ID).
			Str("previous", prev.PathOnDisk).
			Str("replacement", d.PathOnDisk).
			Msg("package id already registered, replacing")
	}
	r.loaded[d.ID] = d

	if !d.Type.Known() {
		r.log.Warn().Str("package", name).Str("extension_type", d.RawType).Msg("unrecognized extension type")
	}

	if activate {
		r.theme = &Theme{Descriptor: d, Templates: d.Templates}
		r.log.Debug().Str("id", d.ID).Int("templates", len(d.Templates)).Msg("theme activated")
	}

	r.log.Debug().Str("package", name).Str("id", d.ID).Stringer("type", d.Type).Msg("package loaded")
	return d, nil
}

// PackageInfo reads the manifest of the package directory name without
// registering it.
func (r *Registry) PackageInfo(name string) (*manifest.Descriptor, error) {
	r.mu.RLock()
	closed := r.state == stateClosed
	r.mu.RUnlock()
	if closed {
		return nil, &LoadError{Package: name, Err: ErrClosed}
	}

	d, err := r.readPackage(name)
	if err != nil {
		return nil, &LoadError{Package: name, Err: err}
	}
	return d, nil
}

// PackagePath returns the directory of the package name under the
// extensions root, rejecting names that would resolve elsewhere.
func (r *Registry) PackagePath(name string) (string, error) {
	return resolvePackagePath(r.root, name)
}

func (r *Registry) readPackage(name string) (*manifest.Descriptor, error) {
	dir, err := resolvePackagePath(r.root, name)
	if err != nil {
		return nil, err
	}
	return manifest.Read(r.fsys, dir)
}

// resolvePackagePath joins root and name after checking that name is a
// single local path element, then verifies the result stays under root.
func resolvePackagePath(root, name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) ||
		!filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePackageName, name)
	}

	path := filepath.Join(root, name)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel != name {
		return "", fmt.Errorf("%w: %q resolves outside %s", ErrUnsafePackageName, name, root)
	}
	return path, nil
}
