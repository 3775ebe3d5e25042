package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// Required manifest keys, in the order they are checked.
const (
	fieldID             = "id"
	fieldName           = "name"
	fieldAuthor         = "author"
	fieldInsertionPoint = "insertion_point"
	fieldExtensionType  = "extension_type"
	fieldTemplates      = "templates"
	fieldVersion        = "version"
)

var nullLiteral = []byte("null")

// Read loads the manifest inside dir and returns its descriptor. The
// returned error wraps ErrNotFound when the manifest is absent, and is a
// *ParseError or *IOError otherwise.
func Read(fsys afero.Fs, dir string) (*Descriptor, error) {
	path := filepath.Join(dir, FileName)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, &IOError{Path: path, Err: err}
	}

	d, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	d.PathOnDisk = dir
	return d, nil
}

// Parse decodes manifest bytes. path is used only in error messages.
func Parse(data []byte, path string) (*Descriptor, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Err: errors.New("manifest is not a JSON object")}
	}

	d := &Descriptor{}
	fields := []struct {
		key string
		dst *string
	}{
		{fieldID, &d.ID},
		{fieldName, &d.Name},
		{fieldAuthor, &d.Author},
		{fieldInsertionPoint, &d.InsertionPoint},
		{fieldExtensionType, &d.RawType},
	}
	for _, f := range fields {
		v, err := requiredString(raw, f.key)
		if err != nil {
			return nil, &ParseError{Path: path, Field: f.key, Err: err}
		}
		*f.dst = v
	}
	if strings.TrimSpace(d.ID) == "" {
		return nil, &ParseError{Path: path, Field: fieldID, Err: ErrEmptyField}
	}
	d.Type = ParsePackageType(d.RawType)

	templates, err := optionalTemplates(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Field: fieldTemplates, Err: err}
	}
	d.Templates = templates

	version, err := optionalVersion(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Field: fieldVersion, Err: err}
	}
	d.Version = version

	return d, nil
}

// requiredString extracts a string field that must be present and non-null.
func requiredString(raw map[string]json.RawMessage, key string) (string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return "", ErrMissingField
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", ErrWrongType
	}
	return s, nil
}

// optionalTemplates coerces the templates field into a Templates map. An
// absent, null or empty object yields nil.
func optionalTemplates(raw map[string]json.RawMessage) (Templates, error) {
	v, ok := raw[fieldTemplates]
	if !ok || isNull(v) {
		return nil, nil
	}
	var t Templates
	if err := json.Unmarshal(v, &t); err != nil {
		return nil, fmt.Errorf("%w: expected an object", ErrWrongType)
	}
	if len(t) == 0 {
		return nil, nil
	}
	return t, nil
}

// optionalVersion returns the declared version after checking its syntax.
// The version is informational; no compatibility decision is made on it.
func optionalVersion(raw map[string]json.RawMessage) (string, error) {
	v, ok := raw[fieldVersion]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", ErrWrongType
	}
	if _, err := semver.NewVersion(strings.TrimPrefix(s, "v")); err != nil {
		return "", fmt.Errorf("invalid semantic version %q: %w", s, err)
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), nullLiteral)
}
