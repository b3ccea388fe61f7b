// Package markdown converts markdown documents into block requests.
package markdown

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/notion-cli/internal/notion"
)

const (
	// maxRichTextLength is the API limit on one rich text run's content.
	maxRichTextLength = 2000
	// maxNestingDepth is how deep children may nest in a single request.
	maxNestingDepth = 2
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ReadFile reads a markdown file and converts it.
func ReadFile(path string) ([]notion.Block, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown %s: %w", path, err)
	}
	return Convert(src), nil
}

// Convert parses src as GitHub-flavored markdown and returns the equivalent
// blocks in document order.
func Convert(src []byte) []notion.Block {
	doc := md.Parser().Parse(text.NewReader(src))
	c := &converter{src: src}
	return c.children(doc, 0)
}

type converter struct {
	src []byte
}

func (c *converter) children(parent ast.Node, depth int) []notion.Block {
	var out []notion.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n, depth)...)
	}
	return out
}

func (c *converter) block(n ast.Node, depth int) []notion.Block {
	switch node := n.(type) {
	case *ast.Heading:
		return []notion.Block{textBlock(headingType(node.Level), c.inline(node))}
	case *ast.Paragraph, *ast.TextBlock:
		return c.paragraph(node)
	case *ast.List:
		typ := notion.BlockBulletedListItem
		if node.IsOrdered() {
			typ = notion.BlockNumberedListItem
		}
		var out []notion.Block
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			out = append(out, c.listItem(item, typ, depth)...)
		}
		return out
	case *ast.FencedCodeBlock:
		return []notion.Block{codeBlock(c.lines(node), codeLanguage(string(node.Language(c.src))))}
	case *ast.CodeBlock:
		return []notion.Block{codeBlock(c.lines(node), "plain text")}
	case *ast.Blockquote:
		return c.quote(node, depth)
	case *ast.ThematicBreak:
		return []notion.Block{{Type: notion.BlockDivider}}
	case *east.Table:
		return []notion.Block{c.table(node)}
	case *ast.HTMLBlock:
		raw := strings.TrimSpace(c.lines(node))
		if raw == "" {
			return nil
		}
		return []notion.Block{textBlock(notion.BlockParagraph, plainRuns(raw))}
	default:
		return c.children(n, depth)
	}
}

func headingType(level int) string {
	switch level {
	case 1:
		return notion.BlockHeading1
	case 2:
		return notion.BlockHeading2
	default:
		return notion.BlockHeading3
	}
}

// paragraph emits a paragraph, or image blocks when the paragraph holds
// nothing but images.
func (c *converter) paragraph(n ast.Node) []notion.Block {
	var images []notion.Block
	onlyImages := n.FirstChild() != nil
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Image:
			images = append(images, notion.Block{
				Type:    notion.BlockImage,
				Content: notion.BlockContent{Type: "external", External: &notion.Link{URL: string(node.Destination)}},
			})
		case *ast.Text:
			if strings.TrimSpace(string(node.Segment.Value(c.src))) != "" {
				onlyImages = false
			}
		default:
			onlyImages = false
		}
	}
	if onlyImages && len(images) > 0 {
		return images
	}
	runs := c.inline(n)
	if len(runs) == 0 {
		return nil
	}
	return []notion.Block{textBlock(notion.BlockParagraph, runs)}
}

func (c *converter) listItem(item ast.Node, typ string, depth int) []notion.Block {
	b := notion.Block{Type: typ}
	var nested []notion.Block
	first := true
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if first && (child.Kind() == ast.KindParagraph || child.Kind() == ast.KindTextBlock) {
			first = false
			if box, ok := child.FirstChild().(*east.TaskCheckBox); ok {
				checked := box.IsChecked
				b.Type = notion.BlockToDo
				b.Content.Checked = &checked
			}
			b.Content.RichText = trimLeading(c.inline(child))
			continue
		}
		nested = append(nested, c.block(child, depth+1)...)
	}
	if depth+1 > maxNestingDepth {
		return append([]notion.Block{b}, nested...)
	}
	b.Content.Children = nested
	return []notion.Block{b}
}

func (c *converter) quote(n *ast.Blockquote, depth int) []notion.Block {
	b := notion.Block{Type: notion.BlockQuote}
	var nested []notion.Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Kind() == ast.KindParagraph {
			if len(b.Content.RichText) > 0 {
				b.Content.RichText = append(b.Content.RichText, notion.NewText("\n"))
			}
			b.Content.RichText = append(b.Content.RichText, c.inline(child)...)
			continue
		}
		nested = append(nested, c.block(child, depth+1)...)
	}
	if depth+1 > maxNestingDepth {
		return append([]notion.Block{b}, nested...)
	}
	b.Content.Children = nested
	return []notion.Block{b}
}

func (c *converter) table(n *east.Table) notion.Block {
	var rows []notion.Block
	width := 0
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells [][]notion.RichText
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			runs := c.inline(cell)
			if runs == nil {
				runs = []notion.RichText{}
			}
			cells = append(cells, runs)
		}
		if len(cells) > width {
			width = len(cells)
		}
		rows = append(rows, notion.Block{Type: notion.BlockTableRow, Content: notion.BlockContent{Cells: cells}})
	}
	for i := range rows {
		for len(rows[i].Content.Cells) < width {
			rows[i].Content.Cells = append(rows[i].Content.Cells, []notion.RichText{})
		}
	}
	_, hasHeader := n.FirstChild().(*east.TableHeader)
	return notion.Block{
		Type: notion.BlockTable,
		Content: notion.BlockContent{
			TableWidth:      width,
			HasColumnHeader: hasHeader,
			Children:        rows,
		},
	}
}

func (c *converter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func textBlock(typ string, runs []notion.RichText) notion.Block {
	return notion.Block{Type: typ, Content: notion.BlockContent{RichText: runs}}
}

func codeBlock(code, language string) notion.Block {
	return notion.Block{
		Type:    notion.BlockCode,
		Content: notion.BlockContent{RichText: plainRuns(code), Language: language},
	}
}

func trimLeading(runs []notion.RichText) []notion.RichText {
	for len(runs) > 0 {
		content := strings.TrimLeft(runs[0].Text.Content, " ")
		if content != "" {
			runs[0].Text.Content = content
			return runs
		}
		runs = runs[1:]
	}
	return runs
}
