// Package mention rewrites {{@Name}} tokens in rich-text fields into the
// mention markup the upstream editor understands.
package mention

import (
	"context"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

const (
	tokenOpen  = "{{@"
	tokenClose = "}}"
)

// MemberLister fetches the member directory of a workspace.
type MemberLister interface {
	ListMembers(ctx context.Context, workspaceID string) ([]upstream.Member, error)
}

// Formatter resolves mention tokens against a workspace member directory.
// The directory is fetched on every call and never cached.
type Formatter struct {
	members MemberLister
	now     func() time.Time
}

// NewFormatter returns a Formatter backed by members.
func NewFormatter(members MemberLister) *Formatter {
	return &Formatter{members: members, now: time.Now}
}

// WithClock returns a copy of f that stamps mentions using now.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	cp := *f
	cp.now = now
	return &cp
}

// Format returns content with every resolvable {{@Name}} token replaced by
// mention markup, wrapped in a paragraph unless it already starts with a tag.
//
// A token preceded by an unescaped backslash is emitted literally without
// the backslash; a doubled backslash before a token stands for one literal
// backslash. Names that are not in the directory are left as typed. A failed
// directory fetch leaves every token literal; it never fails the caller.
func (f *Formatter) Format(ctx context.Context, content, workspaceID string) string {
	if !strings.Contains(content, tokenOpen) {
		return wrapParagraph(content)
	}

	byName := map[string]upstream.Member{}
	if f.members != nil {
		members, err := f.members.ListMembers(ctx, workspaceID)
		if err != nil {
			slog.Warn("member lookup failed, mentions left unresolved",
				"workspace_id", workspaceID,
				"error", err,
			)
		}
		for _, m := range members {
			key := strings.ToLower(strings.TrimSpace(m.Name))
			if _, dup := byName[key]; key != "" && !dup {
				byName[key] = m
			}
		}
	}

	timestamp := strconv.FormatInt(f.now().Unix(), 10)
	return wrapParagraph(replaceTokens(content, func(name string) (string, bool) {
		m, ok := byName[strings.ToLower(name)]
		if !ok {
			return "", false
		}
		return markup(m, timestamp), true
	}))
}

// replaceTokens scans content once, left to right. resolve receives the
// trimmed name of each unescaped token and returns its replacement.
func replaceTokens(content string, resolve func(name string) (string, bool)) string {
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); {
		if !strings.HasPrefix(content[i:], tokenOpen) {
			out = append(out, content[i])
			i++
			continue
		}

		nameStart := i + len(tokenOpen)
		nameLen := strings.IndexByte(content[nameStart:], '}')
		if nameLen <= 0 || !strings.HasPrefix(content[nameStart+nameLen:], tokenClose) {
			out = append(out, content[i])
			i++
			continue
		}

		end := nameStart + nameLen + len(tokenClose)
		token := content[i:end]

		// Backslashes right before the token were already copied. Each pair
		// collapses to one literal backslash; an odd one left over escapes
		// the token.
		run := 0
		for run < i && content[i-1-run] == '\\' {
			run++
		}
		out = append(out[:len(out)-run], strings.Repeat(`\`, run/2)...)
		if run%2 == 1 {
			out = append(out, token...)
			i = end
			continue
		}

		if repl, ok := resolve(strings.TrimSpace(content[nameStart : nameStart+nameLen])); ok {
			out = append(out, repl...)
		} else {
			out = append(out, token...)
		}
		i = end
	}
	return string(out)
}

func markup(m upstream.Member, timestamp string) string {
	var b strings.Builder
	b.WriteString(`<mention user-id="`)
	b.WriteString(html.EscapeString(string(m.ID)))
	b.WriteString(`" timestamp="`)
	b.WriteString(html.EscapeString(timestamp))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(m.Name))
	b.WriteString(`">@`)
	b.WriteString(html.EscapeString(m.Name))
	b.WriteString(`</mention>`)
	return b.String()
}

// startsWithTag reports whether s opens with an element tag such as <p> or
// <ul>; a bare '<' (as in "<3") does not count.
func startsWithTag(s string) bool {
	s = strings.TrimLeft(s, " \t\r\n")
	if len(s) < 2 || s[0] != '<' {
		return false
	}
	c := s[1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func wrapParagraph(s string) string {
	if startsWithTag(s) {
		return s
	}
	return "<p>" + s + "</p>"
}
