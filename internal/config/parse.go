package config

import "strings"

// ParseList splits raw on delim. A backslash directly before delim escapes
// it, so `Tasks\, Urgent` stays one element ("Tasks, Urgent"). Elements are
// trimmed, empty ones dropped, and transform (when non-nil) is applied to
// each element that is kept. Input order is preserved.
func ParseList(raw, delim string, transform func(string) string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if delim == "" {
		return appendElement(out, raw, transform)
	}

	escaped := `\` + delim
	var cur strings.Builder
	for i := 0; i < len(raw); {
		switch {
		case strings.HasPrefix(raw[i:], escaped):
			cur.WriteString(delim)
			i += len(escaped)
		case strings.HasPrefix(raw[i:], delim):
			out = appendElement(out, cur.String(), transform)
			cur.Reset()
			i += len(delim)
		default:
			cur.WriteByte(raw[i])
			i++
		}
	}
	return appendElement(out, cur.String(), transform)
}

func appendElement(out []string, s string, transform func(string) string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	if transform != nil {
		s = transform(s)
	}
	return append(out, s)
}
