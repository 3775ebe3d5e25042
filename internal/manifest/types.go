package manifest

import "sort"

// FileName is the fixed name of the manifest inside a package directory.
const FileName = "manifest.json"

// PackageType is the variant declared by a manifest's extension_type field.
type PackageType string

// Known package types. TypeUnknown is what any unrecognized extension_type
// maps to; it is never substituted by a known variant.
const (
	TypeTheme     PackageType = "theme"
	TypeExtension PackageType = "extension"
	TypeUnknown   PackageType = ""
)

// ValidTypes contains all recognized extension_type values.
var ValidTypes = []PackageType{
	TypeTheme,
	TypeExtension,
}

// ParsePackageType maps a declared extension_type onto a PackageType by
// exact, case-sensitive match.
func ParsePackageType(s string) PackageType {
	switch PackageType(s) {
	case TypeTheme:
		return TypeTheme
	case TypeExtension:
		return TypeExtension
	default:
		return TypeUnknown
	}
}

// String implements fmt.Stringer.
func (t PackageType) String() string {
	if t == TypeUnknown {
		return "unknown"
	}
	return string(t)
}

// MarshalText implements encoding.TextMarshaler so TypeUnknown encodes as
// "unknown" rather than an empty string.
func (t PackageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Known reports whether t is one of ValidTypes.
func (t PackageType) Known() bool {
	return t != TypeUnknown
}

// Templates maps a template slot name to a template source reference. The
// shape of each reference is opaque here; most manifests use plain strings.
type Templates map[string]any

// Slots returns the slot names in sorted order.
func (t Templates) Slots() []string {
	slots := make([]string, 0, len(t))
	for k := range t {
		slots = append(slots, k)
	}
	sort.Strings(slots)
	return slots
}

// Source returns the reference for slot when it is a string.
func (t Templates) Source(slot string) (string, bool) {
	v, ok := t[slot]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clone returns a shallow copy, or nil for an empty set.
func (t Templates) Clone() Templates {
	if len(t) == 0 {
		return nil
	}
	c := make(Templates, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Descriptor is the validated content of one package's manifest. It is
// built only by this package and must be treated as read-only afterwards.
type Descriptor struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Author         string      `json:"author"`
	InsertionPoint string      `json:"insertion_point"`
	Type           PackageType `json:"type"`
	RawType        string      `json:"extension_type"` // exactly as declared
	Version        string      `json:"version,omitempty"`
	Templates      Templates   `json:"templates,omitempty"`
	PathOnDisk     string      `json:"path_on_disk"` // resolved package directory, diagnostics only
}

// IsTheme reports whether the descriptor declares the theme variant.
func (d *Descriptor) IsTheme() bool {
	return d.Type == TypeTheme
}

// HasTemplates reports whether the package supplies any templates.
func (d *Descriptor) HasTemplates() bool {
	return len(d.Templates) > 0
}
