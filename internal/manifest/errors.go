package manifest

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a package directory has no manifest file.
// It is the benign case: a directory may deliberately carry no manifest.
var ErrNotFound = errors.New("manifest not found")

// ErrMissingField and ErrWrongType are the causes carried by a ParseError
// for a required field that is absent or not a string.
var (
	ErrMissingField = errors.New("required field missing")
	ErrWrongType    = errors.New("field has wrong type")
	ErrEmptyField   = errors.New("field must not be empty")
)

// ParseError reports a manifest that exists but is not valid. Field is empty
// when the document as a whole could not be decoded.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parsing manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing manifest %s: field %q: %v", e.Path, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a manifest that exists but could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading manifest %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
