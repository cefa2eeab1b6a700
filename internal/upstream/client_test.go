package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", "test-token", opts...)
}

func readJSONBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func TestDoRequest_Headers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"id":"u1","name":"Ada"}`))
	})
	client := newTestClient(t, mux)

	v, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", ResourceID(v))
}

func TestDoRequest_TokenFromContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})
	client := newTestClient(t, mux)

	_, err := client.GetCurrentUser(WithToken(context.Background(), "caller-token"))
	require.NoError(t, err)
}

func TestDoRequest_EmptyResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no content", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }},
		{"zero length", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }},
		{"whitespace", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(" \n\t ")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("DELETE /ws1/cards/c1", tt.handler)
			client := newTestClient(t, mux)

			v, err := client.DeleteCard(context.Background(), "ws1", "c1")
			require.NoError(t, err)

			success, ok := v.Get("success")
			require.True(t, ok)
			b, _ := success.AsBool()
			assert.True(t, b)
		})
	}
}

func TestDoRequest_ErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/cards/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("card not found"))
	})
	client := newTestClient(t, mux)

	_, err := client.GetCard(context.Background(), "ws1", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "card not found")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/ws1/cards/missing", apiErr.Path)
}

func TestDoRequest_InvalidJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	client := newTestClient(t, mux)

	_, err := client.ListWorkspaces(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestDoRequest_Observer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	var gotMethod string
	var gotStatus int
	client := newTestClient(t, mux, WithObserver(func(method string, status int, _ time.Duration) {
		gotMethod, gotStatus = method, status
	}))

	_, err := client.ListWorkspaces(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, http.StatusTeapot, gotStatus)
}

func TestDoRequest_RejectsUnsafeIDBeforeSending(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	client := newTestClient(t, mux)

	_, err := client.GetCard(context.Background(), "..", "c1")
	require.Error(t, err)

	var pve *PathValidationError
	require.True(t, errors.As(err, &pve))
	assert.False(t, called, "no request may be sent for an invalid identifier")
}

func TestDoRequest_SanitizesPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/cards/admin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"admin"}`))
	})
	client := newTestClient(t, mux)

	v, err := client.GetCard(context.Background(), "ws1", "../../admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", ResourceID(v))
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

func TestCreateCard_TranslatesFieldsAndDropsPosition(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ws1/cards", func(w http.ResponseWriter, r *http.Request) {
		body := readJSONBody(t, r)
		assert.Equal(t, "Write docs", body["name"])
		assert.Equal(t, "<p>hi</p>", body["content"])
		assert.Equal(t, "b1", body["board_id"])
		assert.Equal(t, "l1", body["stage_id"])
		assert.Equal(t, "p1", body["parent_id"])
		assert.Equal(t, []any{"u1", "u2"}, body["assigned_to"])
		assert.NotContains(t, body, "sort_order")
		assert.Equal(t, map[string]any{"points": float64(3)}, body["custom_fields"])
		_, _ = w.Write([]byte(`{"id":"c9"}`))
	})
	client := newTestClient(t, mux)

	pos := 0
	v, err := client.CreateCard(context.Background(), "ws1", CardFields{
		Title:        "Write docs",
		Description:  "<p>hi</p>",
		BoardID:      "b1",
		ListID:       "l1",
		ParentCardID: "p1",
		AssigneeIDs:  []string{"u1", "u2"},
		Position:     &pos,
		CustomFields: Map(Field{Key: "points", Value: Int(3)}),
	})
	require.NoError(t, err)
	assert.Equal(t, "c9", ResourceID(v))
}

func TestUpdateCard_SendsPosition(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /ws1/cards/c9", func(w http.ResponseWriter, r *http.Request) {
		body := readJSONBody(t, r)
		assert.Equal(t, map[string]any{"sort_order": float64(0)}, body)
		_, _ = w.Write([]byte(`{"id":"c9","sort_order":0}`))
	})
	client := newTestClient(t, mux)

	pos := 0
	_, err := client.UpdateCard(context.Background(), "ws1", "c9", CardFields{Position: &pos})
	require.NoError(t, err)
}

func TestListCards_Query(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/cards", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "b1", q.Get("board_id"))
		assert.Equal(t, "l1", q.Get("stage_id"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "", q.Get("offset"))
		_, _ = w.Write([]byte(`{"cards":[]}`))
	})
	client := newTestClient(t, mux)

	_, err := client.ListCards(context.Background(), "ws1", CardFilter{BoardID: "b1", ListID: "l1", Limit: 10})
	require.NoError(t, err)
}

func TestBoardLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/boards/b1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"b1","name":"Main","stages":[{"id":1,"name":"Todo","sort_order":0},{"id":"l2","name":"Done"}]}`))
	})
	client := newTestClient(t, mux)

	lists, err := client.BoardLists(context.Background(), "ws1", "b1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, ID("1"), lists[0].ID)
	assert.Equal(t, "Todo", lists[0].Name)
	assert.Equal(t, ID("l2"), lists[1].ID)
	assert.Nil(t, lists[1].Position)
}

func TestBoardLists_DataEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/boards/b1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"b1","stages":[{"id":"l1","name":"Done"}]}}`))
	})
	mux.HandleFunc("GET /ws1/sprints/s1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"s1","stages":[{"id":"l9","name":"Shipped"}]}}`))
	})
	client := newTestClient(t, mux)

	lists, err := client.BoardLists(context.Background(), "ws1", "b1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Done", lists[0].Name)

	lists, err = client.SprintLists(context.Background(), "ws1", "s1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, ID("l9"), lists[0].ID)
}

func TestSprintLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/sprints/s1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"s1","stages":[{"id":"l9","name":"Shipped"}]}`))
	})
	client := newTestClient(t, mux)

	lists, err := client.SprintLists(context.Background(), "ws1", "s1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Shipped", lists[0].Name)
}

func TestListMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/members", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"members":[{"id":"user-123","name":"Steve Clarke"},{"id":7,"name":"Ada"}]}`))
	})
	client := newTestClient(t, mux)

	members, err := client.ListMembers(context.Background(), "ws1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, Member{ID: "user-123", Name: "Steve Clarke"}, members[0])
	assert.Equal(t, ID("7"), members[1].ID)
}

func TestTagPaths(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	ctx := context.Background()
	_, err := client.AddTagToCard(ctx, "ws1", "c1", "t1")
	require.NoError(t, err)
	_, err = client.RemoveTagFromCard(ctx, "ws1", "c1", "t1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /ws1/cards/c1/labels/t1",
		"DELETE /ws1/cards/c1/labels/t1",
	}, seen)
}

func TestSearch_Query(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "release notes", q.Get("q"))
		assert.Equal(t, "cards,pages", q.Get("types"))
		assert.Equal(t, "25", q.Get("limit"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	client := newTestClient(t, mux)

	_, err := client.Search(context.Background(), "ws1", SearchParams{Query: "release notes", Types: []string{"cards", "pages"}})
	require.NoError(t, err)
}

func TestNoteBodyUsesLegacyField(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ws1/notes", func(w http.ResponseWriter, r *http.Request) {
		body := readJSONBody(t, r)
		assert.Equal(t, "<p>x</p>", body["body"])
		assert.NotContains(t, body, "content")
		_, _ = w.Write([]byte(`{"id":"n1"}`))
	})
	client := newTestClient(t, mux)

	_, err := client.CreateNote(context.Background(), "ws1", NoteParams{Title: "t", Content: "<p>x</p>"})
	require.NoError(t, err)
}
