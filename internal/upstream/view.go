package upstream

// View renames the legacy field names of one resource family in a response
// to the names callers use. Only the top level of each resource is renamed;
// nested objects are copied as they are unless Nested names a view for them.
type View struct {
	// Fields maps legacy field names to caller names.
	Fields map[string]string
	// Collection is the legacy key holding the items of a list response,
	// and As is the key it is presented under.
	Collection string
	As         string
	// Nested presents the value of a (caller-named) field with another view.
	Nested map[string]View
}

var ListView = View{
	Fields: map[string]string{"sort_order": "position"},
}

var CardView = View{
	Fields: map[string]string{
		"name":        "title",
		"content":     "description",
		"stage_id":    "list_id",
		"project_id":  "space_id",
		"parent_id":   "parent_card_id",
		"assigned_to": "assignee_ids",
		"label_ids":   "tag_ids",
		"due_at":      "due_date",
		"sort_order":  "position",
	},
	Collection: "cards",
	As:         "cards",
}

var BoardView = View{
	Fields:     map[string]string{"project_id": "space_id", "stages": "lists"},
	Collection: "boards",
	As:         "boards",
	Nested:     map[string]View{"lists": ListView},
}

var SprintView = View{
	Fields:     map[string]string{"starts_at": "start_date", "ends_at": "end_date", "stages": "lists"},
	Collection: "sprints",
	As:         "sprints",
	Nested:     map[string]View{"lists": ListView},
}

var SpaceView = View{Collection: "projects", As: "spaces"}

var WorkspaceView = View{Collection: "teams", As: "workspaces"}

var MemberView = View{Collection: "members", As: "members"}

var PageView = View{
	Fields: map[string]string{
		"name":       "title",
		"project_id": "space_id",
		"parent_id":  "parent_page_id",
	},
	Collection: "docs",
	As:         "pages",
}

var CommentView = View{Collection: "comments", As: "comments"}

var NoteView = View{
	Fields:     map[string]string{"body": "content"},
	Collection: "notes",
	As:         "notes",
}

var TagView = View{Collection: "labels", As: "tags"}

var ProjectView = View{
	Fields:     map[string]string{"starts_at": "start_date", "target_at": "target_date"},
	Collection: "initiatives",
	As:         "projects",
}

// Present returns v with legacy names replaced. It accepts a single
// resource, a bare list of resources, a {"<collection>": [...]} response or
// any of these wrapped in {"data": ...}.
func (vw View) Present(v Value) Value {
	switch v.Kind() {
	case KindList:
		return vw.presentAll(v)
	case KindMap:
		if vw.Collection != "" {
			if items, ok := v.Get(vw.Collection); ok && items.Kind() == KindList {
				return renameField(v, vw.Collection, vw.As, vw.presentAll(items))
			}
		}
		if data, ok := v.Get("data"); ok && (data.Kind() == KindMap || data.Kind() == KindList) {
			return v.With("data", vw.Present(data))
		}
		return vw.presentItem(v)
	}
	return v
}

func (vw View) presentAll(list Value) Value {
	items := make([]Value, len(list.Items()))
	for i, item := range list.Items() {
		items[i] = vw.presentItem(item)
	}
	return Array(items...)
}

func (vw View) presentItem(v Value) Value {
	if v.Kind() != KindMap {
		return v
	}
	fields := make([]Field, len(v.Fields()))
	for i, f := range v.Fields() {
		key := f.Key
		if renamed, ok := vw.Fields[key]; ok {
			key = renamed
		}
		val := f.Value
		if nested, ok := vw.Nested[key]; ok {
			val = nested.Present(val)
		}
		fields[i] = Field{Key: key, Value: val}
	}
	return Map(fields...)
}

func renameField(v Value, from, to string, val Value) Value {
	fields := make([]Field, len(v.Fields()))
	for i, f := range v.Fields() {
		if f.Key == from {
			fields[i] = Field{Key: to, Value: val}
			continue
		}
		fields[i] = f
	}
	return Map(fields...)
}
