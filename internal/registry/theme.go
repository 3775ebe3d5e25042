package registry

import (
	"fmt"

	"github.com/nepeta-labs/nepeta/internal/manifest"
)

// Theme is a theme package selected as the active template set.
type Theme struct {
	Descriptor *manifest.Descriptor
	Templates  manifest.Templates
}

// ID returns the theme package's id.
func (t *Theme) ID() string {
	return t.Descriptor.ID
}

// qualifiesAsTheme reports whether d can become the active theme: it must
// declare the theme variant and supply at least one template.
func qualifiesAsTheme(d *manifest.Descriptor) bool {
	return d.IsTheme() && d.HasTemplates()
}

// selectTheme decides whether d replaces the active theme under the
// registry's policy. Callers hold r.mu.
func (r *Registry) selectTheme(d *manifest.Descriptor) (bool, error) {
	if !qualifiesAsTheme(d) {
		return false, nil
	}

	switch r.themes {
	case ThemeFirstWins:
		return r.theme == nil, nil
	case ThemeExclusive:
		if r.theme != nil && r.theme.ID() != d.ID {
			return false, fmt.Errorf("%w: %q conflicts with %q", ErrThemeConflict, d.ID, r.theme.ID())
		}
		return true, nil
	default:
		return true, nil
	}
}
