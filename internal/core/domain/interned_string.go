package domain

import (
	"strings"
	"unique"
)

// InternedString wraps a unique.Handle[string].
// Package names, versions and sources repeat across every closure of a large graph,
// so they are interned once and compared by handle.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value, or "" for the zero value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// IsZero reports whether the string was never set.
func (is InternedString) IsZero() bool {
	var zero unique.Handle[string]
	return is.h == zero
}

// Compare orders two interned strings by their values.
func (is InternedString) Compare(other InternedString) int {
	if is == other {
		return 0
	}
	return strings.Compare(is.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
