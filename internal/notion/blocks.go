package notion

import (
	"encoding/json"
	"strings"
)

// Block types produced by the markdown converter.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockCode             = "code"
	BlockQuote            = "quote"
	BlockDivider          = "divider"
	BlockImage            = "image"
	BlockTable            = "table"
	BlockTableRow         = "table_row"
)

// Block is an outgoing block object. It encodes as
// {"object":"block","type":T,T:{...content}}.
type Block struct {
	Type    string
	Content BlockContent
}

// BlockContent is the union of per-type block payloads. Only the fields
// relevant to Block.Type are set.
type BlockContent struct {
	RichText        []RichText   `json:"rich_text,omitempty"`
	Checked         *bool        `json:"checked,omitempty"`
	Language        string       `json:"language,omitempty"`
	Children        []Block      `json:"children,omitempty"`
	Type            string       `json:"type,omitempty"`
	External        *Link        `json:"external,omitempty"`
	TableWidth      int          `json:"table_width,omitempty"`
	HasColumnHeader bool         `json:"has_column_header,omitempty"`
	HasRowHeader    bool         `json:"has_row_header,omitempty"`
	Cells           [][]RichText `json:"cells,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	var content any = b.Content
	switch b.Type {
	case BlockDivider:
		content = struct{}{}
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3,
		BlockBulletedListItem, BlockNumberedListItem, BlockQuote, BlockToDo, BlockCode:
		content = textContent{BlockContent: b.Content, RichText: nonNilRuns(b.Content.RichText)}
	}
	return json.Marshal(map[string]any{
		"object": ObjectBlock,
		"type":   b.Type,
		b.Type:   content,
	})
}

// textContent is the payload of rich-text block types. The API requires
// rich_text on these even when it is empty.
type textContent struct {
	BlockContent
	RichText []RichText `json:"rich_text"`
}

func nonNilRuns(runs []RichText) []RichText {
	if runs == nil {
		return []RichText{}
	}
	return runs
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	b.Type = head.Type
	b.Content = BlockContent{}
	if body, ok := fields[head.Type]; ok {
		if err := json.Unmarshal(body, &b.Content); err != nil {
			return err
		}
	}
	return nil
}

// PlainText concatenates the plain text of rich text runs.
func PlainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		switch {
		case r.PlainText != "":
			sb.WriteString(r.PlainText)
		case r.Text != nil:
			sb.WriteString(r.Text.Content)
		}
	}
	return sb.String()
}

// BlockPlainText returns a one-line summary of a block's text content.
func BlockPlainText(o Object) string {
	if o.Type == "" {
		return ""
	}
	var content BlockContent
	ok, err := o.Field(o.Type, &content)
	if err != nil || !ok {
		return ""
	}
	if text := PlainText(content.RichText); text != "" {
		return text
	}
	if content.External != nil {
		return content.External.URL
	}
	return ""
}
