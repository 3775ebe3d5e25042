package registry

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/nepeta-labs/nepeta/internal/manifest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type lifecycle int

const (
	stateOpen lifecycle = iota
	stateFrozen
	stateClosed
)

// Registry holds the packages found under one extensions root.
//
// It is written only while open; Freeze makes it read-only and Close drops
// its contents. All methods are safe for concurrent use.
type Registry struct {
	fsys   afero.Fs
	root   string
	policy LoadPolicy
	themes ThemePolicy
	log    zerolog.Logger

	mu        sync.RWMutex
	state     lifecycle
	available []string
	loaded    map[string]*manifest.Descriptor
	theme     *Theme
}

// New creates an open, empty registry over root on fsys.
func New(fsys afero.Fs, root string, opts Options) *Registry {
	r := &Registry{
		fsys:   fsys,
		root:   filepath.Clean(root),
		policy: opts.LoadPolicy,
		themes: opts.ThemePolicy,
		log:    zerolog.Nop(),
		loaded: make(map[string]*manifest.Descriptor),
	}
	if r.policy == "" {
		r.policy = StopOnFirstError
	}
	if r.themes == "" {
		r.themes = ThemeLastWins
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", "registry").Logger()
	}
	return r
}

// Root returns the extensions root the registry reads from.
func (r *Registry) Root() string {
	return r.root
}

// Freeze makes the registry read-only. Every later mutation fails with
// ErrFrozen. Freezing twice, or freezing a closed registry, is a no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == stateOpen {
		r.state = stateFrozen
		r.log.Debug().Int("packages", len(r.loaded)).Msg("registry frozen")
	}
}

// Frozen reports whether the registry no longer accepts mutations.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state != stateOpen
}

// Close drops every descriptor and the active theme. Queries on a closed
// registry return empty results.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = stateClosed
	r.available = nil
	r.loaded = nil
	r.theme = nil
	return nil
}

// writable returns the error a mutation must fail with, if any.
// Callers hold r.mu.
func (r *Registry) writable() error {
	switch r.state {
	case stateFrozen:
		return ErrFrozen
	case stateClosed:
		return ErrClosed
	default:
		return nil
	}
}

// AvailablePackages returns the package directory names found by the last
// Enumerate or Init, in enumeration order.
func (r *Registry) AvailablePackages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.available...)
}

// Package returns the loaded descriptor with the given id.
func (r *Registry) Package(id string) (*manifest.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.loaded[id]
	return d, ok
}

// Packages returns every loaded descriptor, sorted by id.
func (r *Registry) Packages() []*manifest.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*manifest.Descriptor, 0, len(r.loaded))
	for _, d := range r.loaded {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveTheme returns the currently selected theme, if any.
func (r *Registry) ActiveTheme() (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.theme == nil {
		return nil, false
	}
	t := *r.theme
	t.Templates = t.Templates.Clone()
	return &t, true
}
