package mention

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

type stubMembers struct {
	members []upstream.Member
	err     error
	calls   int
	gotWS   string
}

func (s *stubMembers) ListMembers(_ context.Context, workspaceID string) ([]upstream.Member, error) {
	s.calls++
	s.gotWS = workspaceID
	return s.members, s.err
}

var fixedNow = func() time.Time { return time.Unix(1700000000, 0) }

func newFormatter(lister MemberLister) *Formatter {
	return NewFormatter(lister).WithClock(fixedNow)
}

// mentions parses out and returns the attributes of every <mention> element.
func mentions(t *testing.T, out string) []map[string]string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var found []map[string]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "mention" {
			attrs := map[string]string{}
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			found = append(found, attrs)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func TestFormat_ResolvesMention(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{
		{ID: "user-123", Name: "Steve Clarke"},
		{ID: "user-456", Name: "Ada"},
	}}

	out := newFormatter(lister).Format(context.Background(), "Hey {{@Steve Clarke}}!", "ws1")

	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, "ws1", lister.gotWS)
	assert.True(t, strings.HasPrefix(out, "<p>Hey <mention "))
	assert.True(t, strings.HasSuffix(out, "</mention>!</p>"))

	found := mentions(t, out)
	require.Len(t, found, 1)
	assert.Equal(t, "user-123", found[0]["user-id"])
	assert.Equal(t, "1700000000", found[0]["timestamp"])
	assert.Equal(t, "Steve Clarke", found[0]["name"])
}

func TestFormat_CaseInsensitiveAndTrimmed(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Steve Clarke"}}}

	out := newFormatter(lister).Format(context.Background(), "{{@  steve CLARKE }}", "ws1")

	found := mentions(t, out)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0]["user-id"])
	assert.Equal(t, "Steve Clarke", found[0]["name"])
}

func TestFormat_EscapedToken(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Name"}}}

	out := newFormatter(lister).Format(context.Background(), `\{{@Name}}`, "ws1")

	assert.Equal(t, "<p>{{@Name}}</p>", out)
	assert.Empty(t, mentions(t, out))
}

func TestFormat_EscapedAndUnescapedTogether(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Ada"}}}

	out := newFormatter(lister).Format(context.Background(), `Literal \{{@Ada}} and real {{@Ada}}`, "ws1")

	assert.True(t, strings.HasPrefix(out, "<p>Literal {{@Ada}} and real <mention "))
	found := mentions(t, out)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0]["user-id"])
}

func TestFormat_BackslashRuns(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Bob"}}}
	f := newFormatter(lister)

	tests := []struct {
		name        string
		in          string
		wantPrefix  string
		wantMention bool
	}{
		{"escaped backslash resolves", `path C:\\{{@Bob}}`, `<p>path C:\<mention `, true},
		{"escaped backslash then escape", `C:\\\{{@Bob}}`, `<p>C:\{{@Bob}}</p>`, false},
		{"two escaped backslashes", `\\\\{{@Bob}}`, `<p>\\<mention `, true},
		{"backslash elsewhere untouched", `a\\b {{@Bob}}`, `<p>a\\b <mention `, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := f.Format(context.Background(), tt.in, "ws1")
			assert.True(t, strings.HasPrefix(out, tt.wantPrefix), out)
			if tt.wantMention {
				assert.Len(t, mentions(t, out), 1)
			} else {
				assert.Empty(t, mentions(t, out))
			}
		})
	}
}

func TestFormat_UnmatchedLeftLiteral(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Ada"}}}

	out := newFormatter(lister).Format(context.Background(), "ping {{@NoSuchUser}}", "ws1")
	assert.Equal(t, "<p>ping {{@NoSuchUser}}</p>", out)
}

func TestFormat_EscapesAttributes(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{
		{ID: `x"><script>`, Name: `<script>alert("x")</script> & co`},
	}}

	out := newFormatter(lister).Format(context.Background(), `{{@<script>alert("x")</script> & co}}`, "ws1")

	assert.NotContains(t, out, "<script>")
	found := mentions(t, out)
	require.Len(t, found, 1)
	assert.Equal(t, `x"><script>`, found[0]["user-id"])
	assert.Equal(t, `<script>alert("x")</script> & co`, found[0]["name"])
}

func TestFormat_LookupFailureDegrades(t *testing.T) {
	lister := &stubMembers{err: errors.New("API error (status 500): boom")}

	out := newFormatter(lister).Format(context.Background(), "Hi {{@Ada}}", "ws1")

	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, "<p>Hi {{@Ada}}</p>", out)
}

func TestFormat_NoMarkerSkipsLookup(t *testing.T) {
	lister := &stubMembers{}
	f := newFormatter(lister)

	assert.Equal(t, "<p>plain text</p>", f.Format(context.Background(), "plain text", "ws1"))
	assert.Equal(t, "<ul><li>x</li></ul>", f.Format(context.Background(), "<ul><li>x</li></ul>", "ws1"))
	assert.Equal(t, "<p></p>", f.Format(context.Background(), "", "ws1"))
	assert.Equal(t, 0, lister.calls)
}

func TestFormat_Wrapping(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Ada"}}}
	f := newFormatter(lister)

	out := f.Format(context.Background(), "<h1>Hi {{@Ada}}</h1>", "ws1")
	assert.True(t, strings.HasPrefix(out, "<h1>Hi <mention "))

	out = f.Format(context.Background(), "<3 {{@Ada}}", "ws1")
	assert.True(t, strings.HasPrefix(out, "<p><3 "))
}

func TestFormat_MalformedTokens(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Ada"}}}
	f := newFormatter(lister)

	for _, in := range []string{"{{@}}", "{{@Ada}", "{{@Ada", "{{@Ad}a}}"} {
		assert.Equal(t, "<p>"+in+"</p>", f.Format(context.Background(), in, "ws1"), in)
	}
}

func TestFormat_MultipleAndAdjacent(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{
		{ID: "u1", Name: "Ada"},
		{ID: "u2", Name: "Grace"},
	}}

	out := newFormatter(lister).Format(context.Background(), "{{@Ada}}{{@Grace}} and {{@ada}}", "ws1")

	found := mentions(t, out)
	require.Len(t, found, 3)
	assert.Equal(t, "u1", found[0]["user-id"])
	assert.Equal(t, "u2", found[1]["user-id"])
	assert.Equal(t, "u1", found[2]["user-id"])
	assert.Equal(t, 1, lister.calls)
}

func TestFormat_FetchesEveryCall(t *testing.T) {
	lister := &stubMembers{members: []upstream.Member{{ID: "u1", Name: "Ada"}}}
	f := newFormatter(lister)

	f.Format(context.Background(), "{{@Ada}}", "ws1")
	f.Format(context.Background(), "{{@Ada}}", "ws1")
	assert.Equal(t, 2, lister.calls)
}
