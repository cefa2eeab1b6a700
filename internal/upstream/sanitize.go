package upstream

import (
	"fmt"
	"strings"
)

// PathValidationError is returned when a caller-supplied identifier cannot be
// used as a URL path segment.
type PathValidationError struct {
	Field  string
	Reason string
}

func (e *PathValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SanitizeID strips every character outside [A-Za-z0-9_-] from value.
// It fails only when value is empty or nothing safe is left after stripping;
// inputs that keep at least one safe character always succeed.
func SanitizeID(field, value string) (string, error) {
	if value == "" {
		return "", &PathValidationError{Field: field, Reason: "must be a non-empty string"}
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.TrimSpace(value) {
		if isSafeIDRune(r) {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", &PathValidationError{
			Field:  field,
			Reason: "must contain only letters, numbers, hyphen, or underscore",
		}
	}
	return b.String(), nil
}

func isSafeIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

// buildPath joins literal resource segments and sanitized identifier
// segments into a rooted path.
func buildPath(segs ...pathSeg) (string, error) {
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if s.field == "" {
			b.WriteString(s.value)
			continue
		}
		id, err := SanitizeID(s.field, s.value)
		if err != nil {
			return "", err
		}
		b.WriteString(id)
	}
	return b.String(), nil
}

type pathSeg struct {
	field string
	value string
}

func lit(s string) pathSeg { return pathSeg{value: s} }

// ident marks a caller-supplied segment that must pass SanitizeID.
func ident(field, value string) pathSeg { return pathSeg{field: field, value: value} }
