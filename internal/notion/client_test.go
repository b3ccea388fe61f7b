package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	method        string
	path          string
	body          string
	authorization string
	version       string
	contentType   string

	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.authorization = r.Header.Get("Authorization")
	h.version = r.Header.Get("Notion-Version")
	h.contentType = r.Header.Get("Content-Type")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient("secret_test", WithBaseURL(srv.URL+"/v1/"))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("  ")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClientSearch(t *testing.T) {
	h := &testHandler{responseBody: `{
		"object": "list",
		"results": [
			{"object": "database", "id": "db-1", "title": [{"plain_text": "Tasks"}], "parent": {"type": "workspace", "workspace": true}},
			{"object": "page", "id": "page-1", "properties": {"Name": {"id": "title", "type": "title", "title": [{"plain_text": "Hello"}]}}, "parent": {"type": "page_id", "page_id": "p-0"}}
		],
		"next_cursor": "abc",
		"has_more": true
	}`}
	c := newTestClient(t, h)

	resp, err := c.Search(context.Background(), &SearchRequest{
		Query:    "tasks",
		Sort:     &SearchSort{Direction: Descending, Timestamp: "last_edited_time"},
		Filter:   &SearchFilter{Property: "object", Value: ObjectDatabase},
		PageSize: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, h.method)
	assert.Equal(t, "/v1/search", h.path)
	assert.Equal(t, "Bearer secret_test", h.authorization)
	assert.Equal(t, DefaultVersion, h.version)
	assert.Equal(t, "application/json", h.contentType)
	assert.JSONEq(t, `{
		"query": "tasks",
		"sort": {"direction": "descending", "timestamp": "last_edited_time"},
		"filter": {"value": "database", "property": "object"},
		"page_size": 5
	}`, h.body)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Tasks", ObjectTitle(resp.Results[0]))
	assert.Equal(t, "workspace", resp.Results[0].Parent.String())
	assert.Equal(t, "Hello", ObjectTitle(resp.Results[1]))
	assert.Equal(t, "page_id:p-0", resp.Results[1].Parent.String())
	assert.True(t, resp.HasMore)
	assert.Equal(t, "abc", resp.Cursor())
}

func TestListResponseKeepsRawPayload(t *testing.T) {
	body := `{"object":"list","results":[{"object":"page","id":"p","extra":{"nested":[1,2]}}],"next_cursor":null,"has_more":false}`
	var resp ListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	out, err := json.Marshal(resp.Results)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"object":"page","id":"p","extra":{"nested":[1,2]}}]`, string(out))
	assert.Equal(t, "", resp.Cursor())
}

func TestClientQueryDatabase(t *testing.T) {
	h := &testHandler{responseBody: `{"object":"list","results":[],"next_cursor":null,"has_more":false}`}
	c := newTestClient(t, h)

	_, err := c.QueryDatabase(context.Background(), &QueryDatabaseRequest{
		DatabaseID: "db-1",
		Filter:     json.RawMessage(`{"property":"Done","checkbox":{"equals":true}}`),
		Sorts:      []Sort{{Property: "Due", Direction: Ascending}},
		PageSize:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/databases/db-1/query", h.path)
	assert.JSONEq(t, `{
		"filter": {"property": "Done", "checkbox": {"equals": true}},
		"sorts": [{"property": "Due", "direction": "ascending"}],
		"page_size": 10
	}`, h.body)
}

func TestClientQueryDatabaseRequiresID(t *testing.T) {
	c, err := NewClient("tok")
	require.NoError(t, err)
	_, err = c.QueryDatabase(context.Background(), &QueryDatabaseRequest{})
	assert.Error(t, err)
}

func TestQueryAllPagesFollowsCursor(t *testing.T) {
	var cursors []string
	srv := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		cursors = append(cursors, req.StartCursor)
		switch req.StartCursor {
		case "":
			fmt.Fprint(w, `{"results":[{"object":"page","id":"1"},{"object":"page","id":"2"}],"next_cursor":"c2","has_more":true}`)
		case "c2":
			fmt.Fprint(w, `{"results":[{"object":"page","id":"3"}],"next_cursor":null,"has_more":false}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	c := newTestClient(t, srv)

	pages, err := QueryAllPages(context.Background(), c, QueryDatabaseRequest{DatabaseID: "db", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"", "c2"}, cursors)
	assert.Equal(t, "3", pages[2].ID)
}

func TestClientAPIError(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusNotFound,
		responseBody: `{"object":"error","status":404,"code":"object_not_found","message":"Could not find database","request_id":"req-1"}`,
	}
	c := newTestClient(t, h)

	_, err := c.RetrieveDatabase(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.True(t, apiErr.IsNotFound())
	assert.False(t, apiErr.IsUnauthorized())
	assert.Contains(t, err.Error(), "Could not find database")
}

func TestClientAPIErrorPlainBody(t *testing.T) {
	h := &testHandler{statusCode: http.StatusBadGateway, responseBody: "upstream down"}
	c := newTestClient(t, h)

	_, err := c.Search(context.Background(), &SearchRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestRetrieveDatabaseKeepsPropertyOrder(t *testing.T) {
	h := &testHandler{responseBody: `{
		"object": "database",
		"id": "db-1",
		"title": [{"plain_text": "Tasks"}],
		"properties": {
			"Status": {"id": "a", "name": "Status", "type": "select", "select": {"options": [{"name": "Todo"}, {"name": "In Progress"}]}},
			"Name": {"id": "title", "name": "Name", "type": "title", "title": {}},
			"Due": {"id": "b", "name": "Due", "type": "date", "date": {}},
			"Tags": {"id": "c", "name": "Tags", "type": "multi_select", "multi_select": {"options": [{"name": "x"}]}}
		}
	}`}
	c := newTestClient(t, h)

	db, err := c.RetrieveDatabase(context.Background(), "db-1")
	require.NoError(t, err)
	assert.Equal(t, "/v1/databases/db-1", h.path)
	assert.Equal(t, http.MethodGet, h.method)
	assert.Equal(t, "Tasks", DatabaseTitle(db.Object))

	var names []string
	for _, p := range db.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Status", "Name", "Due", "Tags"}, names)
	assert.Equal(t, []string{"Todo", "In Progress"}, db.Properties[0].Options)
	assert.Equal(t, "Name", db.TitlePropertyName())

	tags, ok := db.Property("Tags")
	require.True(t, ok)
	assert.Equal(t, "multi_select", tags.Type)

	raw, err := json.Marshal(db)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"In Progress"`)
}

func TestCreatePageChunksChildren(t *testing.T) {
	type call struct {
		method   string
		path     string
		children int
	}
	var calls []call
	srv := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Children []json.RawMessage `json:"children"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, len(body.Children)})
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"object":"page","id":"new-page","url":"https://notion.so/new-page"}`)
			return
		}
		fmt.Fprint(w, `{"object":"list","results":[]}`)
	})
	c := newTestClient(t, srv)

	children := make([]Block, 0, 230)
	for i := 0; i < 230; i++ {
		children = append(children, Block{Type: BlockParagraph, Content: BlockContent{RichText: []RichText{NewText(fmt.Sprint(i))}}})
	}
	page, err := c.CreatePage(context.Background(), &CreatePageRequest{
		Parent:     Parent{DatabaseID: "db-1"},
		Properties: map[string]any{"Name": TitleProperty("doc")},
		Children:   children,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-page", page.ID)
	assert.Equal(t, []call{
		{http.MethodPost, "/v1/pages", 100},
		{http.MethodPatch, "/v1/blocks/new-page/children", 100},
		{http.MethodPatch, "/v1/blocks/new-page/children", 30},
	}, calls)
}

func TestAppendBlockChildren(t *testing.T) {
	h := &testHandler{responseBody: `{"object":"list","results":[{"object":"block","id":"b1","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"hi"}]}}]}`}
	c := newTestClient(t, h)

	resp, err := c.AppendBlockChildren(context.Background(), &AppendBlockChildrenRequest{
		BlockID:  "parent",
		Children: json.RawMessage(`[{"type":"divider","divider":{}}]`),
		After:    "b0",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, h.method)
	assert.Equal(t, "/v1/blocks/parent/children", h.path)
	assert.JSONEq(t, `{"children":[{"type":"divider","divider":{}}],"after":"b0"}`, h.body)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "hi", BlockPlainText(resp.Results[0]))
}

func TestBlockMarshal(t *testing.T) {
	checked := true
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "divider",
			block: Block{Type: BlockDivider},
			want:  `{"object":"block","type":"divider","divider":{}}`,
		},
		{
			name:  "empty paragraph keeps rich_text",
			block: Block{Type: BlockParagraph},
			want:  `{"object":"block","type":"paragraph","paragraph":{"rich_text":[]}}`,
		},
		{
			name:  "empty to do keeps rich_text",
			block: Block{Type: BlockToDo, Content: BlockContent{Checked: new(bool)}},
			want:  `{"object":"block","type":"to_do","to_do":{"rich_text":[],"checked":false}}`,
		},
		{
			name:  "empty list item keeps rich_text",
			block: Block{Type: BlockBulletedListItem, Content: BlockContent{RichText: []RichText{}}},
			want:  `{"object":"block","type":"bulleted_list_item","bulleted_list_item":{"rich_text":[]}}`,
		},
		{
			name:  "code keeps language",
			block: Block{Type: BlockCode, Content: BlockContent{Language: "go"}},
			want:  `{"object":"block","type":"code","code":{"rich_text":[],"language":"go"}}`,
		},
		{
			name:  "to do",
			block: Block{Type: BlockToDo, Content: BlockContent{RichText: []RichText{NewText("x")}, Checked: &checked}},
			want:  `{"object":"block","type":"to_do","to_do":{"rich_text":[{"type":"text","text":{"content":"x"}}],"checked":true}}`,
		},
		{
			name:  "image",
			block: Block{Type: BlockImage, Content: BlockContent{Type: "external", External: &Link{URL: "https://x/y.png"}}},
			want:  `{"object":"block","type":"image","image":{"type":"external","external":{"url":"https://x/y.png"}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.block)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestNormalizeID(t *testing.T) {
	const want = "1429989f-e8ac-4eff-bc8f-57f56486db54"
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: want, want: want},
		{in: strings.ReplaceAll(want, "-", ""), want: want},
		{in: "https://www.notion.so/acme/My-Page-1429989fe8ac4effbc8f57f56486db54", want: want},
		{in: "https://www.notion.so/1429989fe8ac4effbc8f57f56486db54?v=abc", want: want},
		{in: "", wantErr: true},
		{in: "not-an-id", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
