// Package domain contains the core domain models for the task scheduler:
// projects, the project graph, tasks, the task collection, and the values
// that flow between them (file-hash maps, build state, cache fingerprints).
package domain

import "unique"

// InternedString wraps a unique.Handle[string] so that frequently repeated
// strings (project names, task names) share storage across the
// graph instead of each edge holding its own copy.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s and returns the handle.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
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
