// Package notion is a typed client for the Notion public REST API.
//
// Only the endpoints the CLI needs are modeled. Response objects keep the
// bytes they were decoded from, so re-encoding them yields the unmodified
// remote payload (used by --raw output).
package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SortDirection is the direction of a sort clause.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// Object kinds returned by the API.
const (
	ObjectPage     = "page"
	ObjectDatabase = "database"
	ObjectBlock    = "block"
	ObjectList     = "list"
)

// RichText is one run of formatted text.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        string       `json:"href,omitempty"`
}

// TextContent is the payload of a "text" rich text run.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is a hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// Annotations holds rich text styling.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// NewText builds a plain text run.
func NewText(content string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: content}}
}

// Parent identifies the container of a page, database or block.
type Parent struct {
	Type       string `json:"type,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// String renders the parent as "<kind>:<id>".
func (p Parent) String() string {
	switch {
	case p.PageID != "":
		return "page_id:" + p.PageID
	case p.DatabaseID != "":
		return "database_id:" + p.DatabaseID
	case p.BlockID != "":
		return "block_id:" + p.BlockID
	case p.Workspace:
		return "workspace"
	}
	return ""
}

// PropertyValue is the subset of a page property value needed for display.
type PropertyValue struct {
	ID    string     `json:"id"`
	Type  string     `json:"type"`
	Title []RichText `json:"title,omitempty"`
}

// Object is a page, database or block as returned by list endpoints.
type Object struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	URL            string                   `json:"url,omitempty"`
	CreatedTime    string                   `json:"created_time,omitempty"`
	LastEditedTime string                   `json:"last_edited_time,omitempty"`
	Parent         Parent                   `json:"parent"`
	Title          []RichText               `json:"title,omitempty"`
	Properties     map[string]PropertyValue `json:"properties,omitempty"`
	Type           string                   `json:"type,omitempty"`
	HasChildren    bool                     `json:"has_children,omitempty"`

	raw json.RawMessage
}

type objectAlias Object

// UnmarshalJSON decodes the object and remembers its source bytes.
func (o *Object) UnmarshalJSON(data []byte) error {
	var alias objectAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*o = Object(alias)
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when the object came from the API.
func (o Object) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(objectAlias(o))
}

// Field decodes the named top-level field of the raw payload into v.
// It reports false when the field is absent.
func (o Object) Field(name string, v any) (bool, error) {
	if len(o.raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(o.raw, &fields); err != nil {
		return false, err
	}
	data, ok := fields[name]
	if !ok || bytes.Equal(data, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// ListResponse is the paginated envelope returned by search, database query
// and block children endpoints.
type ListResponse struct {
	Object     string   `json:"object"`
	Results    []Object `json:"results"`
	NextCursor *string  `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`

	raw json.RawMessage
}

type listAlias ListResponse

// UnmarshalJSON decodes the list and remembers its source bytes.
func (l *ListResponse) UnmarshalJSON(data []byte) error {
	var alias listAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*l = ListResponse(alias)
	l.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when the list came from the API.
func (l ListResponse) MarshalJSON() ([]byte, error) {
	if len(l.raw) > 0 {
		return l.raw, nil
	}
	return json.Marshal(listAlias(l))
}

// Cursor returns the continuation cursor, or "" when there is none.
func (l *ListResponse) Cursor() string {
	if l.NextCursor == nil {
		return ""
	}
	return *l.NextCursor
}

// SearchSort orders search results by a timestamp.
type SearchSort struct {
	Direction SortDirection `json:"direction"`
	Timestamp string        `json:"timestamp"`
}

// SearchFilter restricts search results to one object kind.
type SearchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query       string        `json:"query,omitempty"`
	Sort        *SearchSort   `json:"sort,omitempty"`
	Filter      *SearchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

// Sort is one database query sort clause.
type Sort struct {
	Property  string        `json:"property,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	Direction SortDirection `json:"direction"`
}

// QueryDatabaseRequest is the body of POST /databases/{id}/query.
// Filter is passed through verbatim.
type QueryDatabaseRequest struct {
	DatabaseID  string          `json:"-"`
	Filter      json.RawMessage `json:"filter,omitempty"`
	Sorts       []Sort          `json:"sorts,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	PageSize    int             `json:"page_size,omitempty"`
}

// CreatePageRequest is the body of POST /pages.
type CreatePageRequest struct {
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []Block        `json:"children,omitempty"`
}

// AppendBlockChildrenRequest is the body of PATCH /blocks/{id}/children.
// Children is a JSON array of block objects, passed through verbatim.
type AppendBlockChildrenRequest struct {
	BlockID  string          `json:"-"`
	Children json.RawMessage `json:"children"`
	After    string          `json:"after,omitempty"`
}

// TitleProperty builds the property value for a title property.
func TitleProperty(title string) map[string]any {
	return map[string]any{
		"title": []RichText{NewText(title)},
	}
}
