package upstream

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func present(t *testing.T, vw View, in string) string {
	t.Helper()
	v, err := ParseValue([]byte(in))
	require.NoError(t, err)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(vw.Present(v)))
	return strings.TrimSuffix(buf.String(), "\n")
}

func TestView_Card(t *testing.T) {
	got := present(t, CardView, `{"id":"c1","name":"Fix","content":"<p>x</p>","stage_id":"l1","sort_order":0,"assignee":{"id":"u1","name":"Ada"}}`)
	assert.Equal(t, `{"id":"c1","title":"Fix","description":"<p>x</p>","list_id":"l1","position":0,"assignee":{"id":"u1","name":"Ada"}}`, got)
}

func TestView_Collection(t *testing.T) {
	got := present(t, CardView, `{"cards":[{"id":"c1","name":"A"},{"id":"c2","name":"B"}],"total":2}`)
	assert.Equal(t, `{"cards":[{"id":"c1","title":"A"},{"id":"c2","title":"B"}],"total":2}`, got)

	got = present(t, PageView, `{"docs":[{"id":"p1","name":"Intro","parent_id":"p0"}]}`)
	assert.Equal(t, `{"pages":[{"id":"p1","title":"Intro","parent_page_id":"p0"}]}`, got)
}

func TestView_BareListAndData(t *testing.T) {
	got := present(t, TagView, `[{"id":"t1","name":"bug"}]`)
	assert.Equal(t, `[{"id":"t1","name":"bug"}]`, got)

	got = present(t, NoteView, `{"data":{"id":"n1","body":"hi"}}`)
	assert.Equal(t, `{"data":{"id":"n1","content":"hi"}}`, got)
}

func TestView_NestedLists(t *testing.T) {
	got := present(t, BoardView, `{"id":"b1","project_id":"s1","stages":[{"id":"l1","name":"Todo","sort_order":0}]}`)
	assert.Equal(t, `{"id":"b1","space_id":"s1","lists":[{"id":"l1","name":"Todo","position":0}]}`, got)
}

func TestView_Scalars(t *testing.T) {
	assert.Equal(t, `{"success":true}`, present(t, CardView, `{"success":true}`))
	assert.Equal(t, `"x"`, present(t, CardView, `"x"`))
}
