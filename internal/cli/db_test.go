package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/notion-cli/internal/filter"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/prompt"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

const databaseResponse = `{
	"object": "database",
	"id": "` + testDatabaseID + `",
	"title": [{"plain_text": "Tasks"}],
	"parent": {"type": "workspace", "workspace": true},
	"properties": {
		"Task": {"id": "title", "name": "Task", "type": "title", "title": {}},
		"Done": {"id": "a1", "name": "Done", "type": "checkbox", "checkbox": {}},
		"Status": {"id": "b2", "name": "Status", "type": "select", "select": {"options": [{"name": "Todo"}, {"name": "In Progress"}]}}
	}
}`

func queryPage(cursor string, hasMore bool, ids ...string) string {
	results := make([]string, len(ids))
	for i, id := range ids {
		results[i] = `{"object":"page","id":"` + id + `","properties":{"Task":{"id":"title","type":"title","title":[{"plain_text":"task ` + id + `"}]}}}`
	}
	next := "null"
	if cursor != "" {
		next = `"` + cursor + `"`
	}
	hm := "false"
	if hasMore {
		hm = "true"
	}
	return `{"object":"list","results":[` + strings.Join(results, ",") + `],"next_cursor":` + next + `,"has_more":` + hm + `}`
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var cliErr *Error
	require.True(t, errors.As(err, &cliErr), "want *Error, got %T: %v", err, err)
	return cliErr.Code
}

func TestBuildQueryRequest(t *testing.T) {
	base := queryOptions{DatabaseID: strings.ReplaceAll(testDatabaseID, "-", ""), PageSize: 10, SortDirection: "asc"}

	t.Run("normalizes id", func(t *testing.T) {
		req, err := buildQueryRequest(base)
		require.NoError(t, err)
		assert.Equal(t, testDatabaseID, req.DatabaseID)
		assert.Equal(t, 10, req.PageSize)
		assert.Nil(t, req.Filter)
		assert.Nil(t, req.Sorts)
	})

	t.Run("raw filter is validated and kept", func(t *testing.T) {
		opts := base
		opts.RawFilter = `{"property":"Done","checkbox":{"equals":true}}`
		req, err := buildQueryRequest(opts)
		require.NoError(t, err)
		assert.JSONEq(t, opts.RawFilter, string(req.Filter))
	})

	t.Run("file filter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "filter.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"or":[{"property":"Status","select":{"equals":"Todo"}},{"property":"Done","checkbox":{"equals":false}}]}`), 0o644))
		opts := base
		opts.FileFilter = path
		req, err := buildQueryRequest(opts)
		require.NoError(t, err)
		assert.Contains(t, string(req.Filter), `"or"`)
	})

	t.Run("sort property", func(t *testing.T) {
		opts := base
		opts.SortProperty = "Due"
		opts.SortDirection = "desc"
		req, err := buildQueryRequest(opts)
		require.NoError(t, err)
		assert.Equal(t, []notion.Sort{{Property: "Due", Direction: notion.Descending}}, req.Sorts)
	})

	errCases := []struct {
		name string
		edit func(*queryOptions)
		code string
	}{
		{"bad id", func(o *queryOptions) { o.DatabaseID = "nope" }, ErrInvalidInput},
		{"page size", func(o *queryOptions) { o.PageSize = 0 }, ErrInvalidInput},
		{"direction", func(o *queryOptions) { o.SortDirection = "up" }, ErrInvalidInput},
		{"both filters", func(o *queryOptions) { o.RawFilter = "{}"; o.FileFilter = "f.json" }, ErrInvalidInput},
		{"malformed raw filter", func(o *queryOptions) { o.RawFilter = `{"property":"Done"}` }, ErrInvalidInput},
		{"missing filter file", func(o *queryOptions) { o.FileFilter = filepath.Join(t.TempDir(), "none.json") }, ErrFileNotFound},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := base
			tc.edit(&opts)
			_, err := buildQueryRequest(opts)
			require.Error(t, err)
			assert.Equal(t, tc.code, errorCode(t, err))
		})
	}
}

func TestRunQueryPageAllFollowsCursor(t *testing.T) {
	path := "/v1/databases/" + testDatabaseID + "/query"
	api, fake := newFakeAPI(t, map[string][]string{
		"POST " + path: {
			queryPage("cur-2", true, "p1", "p2"),
			queryPage("", false, "p3"),
		},
	})
	s, out, _ := bufferStreams()

	err := runQuery(context.Background(), api, queryOptions{
		DatabaseID:    testDatabaseID,
		PageSize:      2,
		PageAll:       true,
		SortDirection: "asc",
		Raw:           true,
	}, s)
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "p3", results[2]["id"])

	reqs := fake.requests("POST", path)
	require.Len(t, reqs, 2)
	assert.NotContains(t, reqs[0].Body, "start_cursor")
	assert.Contains(t, reqs[1].Body, `"start_cursor":"cur-2"`)
}

func TestRunQuerySinglePageTable(t *testing.T) {
	path := "/v1/databases/" + testDatabaseID + "/query"
	api, _ := newFakeAPI(t, map[string][]string{"POST " + path: {queryPage("cur-2", true, "p1")}})
	s, out, _ := bufferStreams()

	err := runQuery(context.Background(), api, queryOptions{
		DatabaseID:    testDatabaseID,
		PageSize:      1,
		SortDirection: "asc",
		Table:         ui.TableOptions{Output: ui.FormatCSV, Columns: []string{"title", "id"}},
	}, s)
	require.NoError(t, err)
	assert.Equal(t, "title,id\ntask p1,p1\n", out.String())
}

func TestRunQueryUnauthorized(t *testing.T) {
	path := "/v1/databases/" + testDatabaseID + "/query"
	api, fake := newFakeAPI(t, map[string][]string{
		"POST " + path: {`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`},
	})
	fake.status["POST "+path] = 401
	s, _, _ := bufferStreams()

	err := runQuery(context.Background(), api, queryOptions{DatabaseID: testDatabaseID, PageSize: 10, SortDirection: "asc"}, s)
	require.Error(t, err)
	assert.Equal(t, ErrUnauthorized, errorCode(t, err))
}

func TestRunRetrieveListsSchema(t *testing.T) {
	api, _ := newFakeAPI(t, map[string][]string{"GET /v1/databases/" + testDatabaseID: {databaseResponse}})
	s, out, _ := bufferStreams()

	err := runRetrieve(context.Background(), api, testDatabaseID, false, ui.TableOptions{Output: ui.FormatCSV, Extended: true}, s)
	require.NoError(t, err)

	assert.Equal(t, "name,type,id,options\n"+
		"Task,title,title,\n"+
		"Done,checkbox,a1,\n"+
		"Status,select,b2,\"Todo, In Progress\"\n", out.String())
}

func TestRunInteractiveQueryBuildsFilter(t *testing.T) {
	chdir(t, t.TempDir())
	api, _ := newFakeAPI(t, map[string][]string{
		"POST /v1/search":                     {searchResponse},
		"GET /v1/databases/" + testDatabaseID: {databaseResponse},
	})
	p := &scriptedPrompter{t: t, answers: []any{
		"Tasks (" + testDatabaseID + ")",
		true,
		"Status <select>", "equals", "In Progress",
		false,
		"and",
		"Done <checkbox>", "equals", "false",
		true,
		false,
	}}
	s, _, errOut := bufferStreams()

	expr, id, err := runInteractiveQuery(context.Background(), api, p, s)
	require.NoError(t, err)
	p.done()

	assert.Equal(t, testDatabaseID, id)
	data, err := json.Marshal(expr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"and":[
		{"property":"Status","select":{"equals":"In Progress"}},
		{"property":"Done","checkbox":{"equals":false}}
	]}`, string(data))
	assert.Contains(t, errOut.String(), "Filter:")
}

func TestRunInteractiveQueryWithoutDatabases(t *testing.T) {
	api, _ := newFakeAPI(t, map[string][]string{
		"POST /v1/search": {`{"object":"list","results":[],"next_cursor":null,"has_more":false}`},
	})
	p := &scriptedPrompter{t: t}
	s, _, _ := bufferStreams()

	_, _, err := runInteractiveQuery(context.Background(), api, p, s)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, errorCode(t, err))
}

func TestDBQueryCommandInteractive(t *testing.T) {
	chdir(t, t.TempDir())
	queryPath := "/v1/databases/" + testDatabaseID + "/query"
	api, fake := newFakeAPI(t, map[string][]string{
		"POST /v1/search":                     {searchResponse},
		"GET /v1/databases/" + testDatabaseID: {databaseResponse},
		"POST " + queryPath:                   {queryPage("", false, "p1")},
	})
	useAPI(t, api)
	p := &scriptedPrompter{t: t, answers: []any{
		"Tasks (" + testDatabaseID + ")",
		true,
		"Done <checkbox>", "equals", "true",
		true,
		false,
	}}
	stubInteractive(t, true, p)

	stdout, stderr, code := runCLI(t, "db", "query", "--csv")
	require.Equal(t, ExitOK, code, stderr)
	p.done()

	assert.Equal(t, "title,object,id,url\ntask p1,page,p1,\n", stdout)
	reqs := fake.requests("POST", queryPath)
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, `"filter":{"property":"Done","checkbox":{"equals":true}}`)
	assert.Contains(t, reqs[0].Body, `"page_size":10`)
}

func TestDBQueryCommandCanceled(t *testing.T) {
	api, _ := newFakeAPI(t, map[string][]string{"POST /v1/search": {searchResponse}})
	useAPI(t, api)
	stubInteractive(t, true, &scriptedPrompter{t: t, answers: []any{prompt.ErrCanceled}})

	_, stderr, code := runCLI(t, "db", "query")
	assert.Equal(t, ExitCanceled, code)
	assert.Empty(t, stderr)
}

func TestDBQueryCommandNeedsTerminal(t *testing.T) {
	stubInteractive(t, false, nil)

	_, stderr, code := runCLI(t, "db", "query")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "interactive mode needs a terminal")
	assert.Contains(t, stderr, "Hint:")
}

func TestDBQueryCommandFilterFlagsNeedID(t *testing.T) {
	stubInteractive(t, true, &scriptedPrompter{t: t})

	for _, flag := range [][]string{
		{"--raw-filter", `{"property":"Done","checkbox":{"equals":true}}`},
		{"--file-filter", "filter.json"},
	} {
		_, stderr, code := runCLI(t, append([]string{"db", "query"}, flag...)...)
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, "need a database ID")
	}
}

func stubInteractive(t *testing.T, interactive bool, p *scriptedPrompter) {
	t.Helper()
	prevInteractive, prevPrompter := isInteractive, newPrompter
	t.Cleanup(func() { isInteractive, newPrompter = prevInteractive, prevPrompter })
	isInteractive = func() bool { return interactive }
	newPrompter = func() filter.Prompter { return p }
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
