// Package position decides where a newly created card lands in its list.
package position

import (
	"regexp"
	"strings"
)

// Matches reports whether candidate matches a glob pattern. Matching is
// case-insensitive and '*' stands for any run of characters; everything
// else in the pattern is literal.
func Matches(candidate, pattern string) bool {
	re, err := compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(candidate)
}

func compile(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("(?is)^" + strings.Join(parts, ".*") + "$")
}

// Policy holds the list-name patterns whose lists receive new cards at the
// top. A Policy is immutable once built and safe for concurrent use.
type Policy struct {
	patterns []string
	compiled []*regexp.Regexp
}

// NewPolicy builds a Policy from glob patterns. Blank patterns are ignored.
func NewPolicy(patterns []string) *Policy {
	p := &Policy{}
	for _, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			continue
		}
		re, err := compile(pat)
		if err != nil {
			continue
		}
		p.patterns = append(p.patterns, pat)
		p.compiled = append(p.compiled, re)
	}
	return p
}

// Enabled reports whether any pattern is configured. Callers skip the list
// name lookup entirely when it is false.
func (p *Policy) Enabled() bool {
	return p != nil && len(p.compiled) > 0
}

// Patterns returns a copy of the configured patterns.
func (p *Policy) Patterns() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.patterns...)
}

// MatchesList reports whether listName matches any configured pattern.
func (p *Policy) MatchesList(listName string) bool {
	if p == nil {
		return false
	}
	for _, re := range p.compiled {
		if re.MatchString(listName) {
			return true
		}
	}
	return false
}

// ShouldPositionAtTop resolves the position for a new card. An explicit
// position always wins. Otherwise a list whose name matches a pattern gets
// position 0, and nil means the upstream default ordering applies.
func (p *Policy) ShouldPositionAtTop(listName string, explicit *int) *int {
	if explicit != nil {
		v := *explicit
		return &v
	}
	if p.MatchesList(listName) {
		top := 0
		return &top
	}
	return nil
}
