package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/aidanlsb/notion-cli/internal/notion"
)

type style struct {
	bold   bool
	italic bool
	strike bool
	code   bool
	link   string
}

type run struct {
	text  string
	style style
}

// inline flattens the inline children of n into rich text runs.
func (c *converter) inline(n ast.Node) []notion.RichText {
	var runs []run
	c.walkInline(n, style{}, &runs)
	return toRichText(runs)
}

func (c *converter) walkInline(n ast.Node, st style, runs *[]run) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			s := string(node.Segment.Value(c.src))
			switch {
			case node.HardLineBreak():
				s += "\n"
			case node.SoftLineBreak():
				s += " "
			}
			addRun(runs, s, st)
		case *ast.String:
			addRun(runs, string(node.Value), st)
		case *ast.CodeSpan:
			inner := st
			inner.code = true
			c.walkInline(node, inner, runs)
		case *ast.Emphasis:
			inner := st
			if node.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}
			c.walkInline(node, inner, runs)
		case *east.Strikethrough:
			inner := st
			inner.strike = true
			c.walkInline(node, inner, runs)
		case *ast.Link:
			inner := st
			inner.link = string(node.Destination)
			c.walkInline(node, inner, runs)
		case *ast.AutoLink:
			inner := st
			inner.link = string(node.URL(c.src))
			addRun(runs, string(node.Label(c.src)), inner)
		case *ast.Image:
			inner := st
			inner.link = string(node.Destination)
			c.walkInline(node, inner, runs)
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				addRun(runs, string(seg.Value(c.src)), st)
			}
		case *east.TaskCheckBox:
		default:
			c.walkInline(node, st, runs)
		}
	}
}

// addRun appends s, merging it into the previous run when styles match.
func addRun(runs *[]run, s string, st style) {
	if s == "" {
		return
	}
	if n := len(*runs); n > 0 && (*runs)[n-1].style == st {
		(*runs)[n-1].text += s
		return
	}
	*runs = append(*runs, run{text: s, style: st})
}

func toRichText(runs []run) []notion.RichText {
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.text = strings.TrimRight(last.text, " \n")
		if last.text == "" {
			runs = runs[:len(runs)-1]
		}
	}
	var out []notion.RichText
	for _, r := range runs {
		for _, chunk := range splitText(r.text) {
			rt := notion.NewText(chunk)
			if r.style.link != "" {
				rt.Text.Link = &notion.Link{URL: r.style.link}
			}
			if r.style.bold || r.style.italic || r.style.strike || r.style.code {
				rt.Annotations = &notion.Annotations{
					Bold:          r.style.bold,
					Italic:        r.style.italic,
					Strikethrough: r.style.strike,
					Code:          r.style.code,
				}
			}
			out = append(out, rt)
		}
	}
	return out
}

func plainRuns(s string) []notion.RichText {
	var out []notion.RichText
	for _, chunk := range splitText(s) {
		out = append(out, notion.NewText(chunk))
	}
	if out == nil {
		out = []notion.RichText{}
	}
	return out
}

// splitText cuts s into pieces of at most maxRichTextLength runes.
func splitText(s string) []string {
	runes := []rune(s)
	if len(runes) <= maxRichTextLength {
		return []string{s}
	}
	var parts []string
	for len(runes) > 0 {
		n := maxRichTextLength
		if len(runes) < n {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}

// codeLanguage maps a fence info string to a language the API accepts.
func codeLanguage(info string) string {
	lang := strings.ToLower(strings.TrimSpace(info))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	if _, ok := languages[lang]; ok {
		return lang
	}
	return "plain text"
}

var languageAliases = map[string]string{
	"":           "plain text",
	"text":       "plain text",
	"txt":        "plain text",
	"js":         "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"rb":         "ruby",
	"sh":         "shell",
	"zsh":        "shell",
	"yml":        "yaml",
	"md":         "markdown",
	"golang":     "go",
	"rs":         "rust",
	"kt":         "kotlin",
	"cs":         "c#",
	"csharp":     "c#",
	"cpp":        "c++",
	"ps1":        "powershell",
	"dockerfile": "docker",
	"hcl":        "plain text",
	"toml":       "plain text",
}

var languages = map[string]struct{}{
	"abap": {}, "arduino": {}, "bash": {}, "basic": {}, "c": {}, "clojure": {},
	"coffeescript": {}, "c++": {}, "c#": {}, "css": {}, "dart": {}, "diff": {},
	"docker": {}, "elixir": {}, "elm": {}, "erlang": {}, "flow": {}, "fortran": {},
	"f#": {}, "gherkin": {}, "glsl": {}, "go": {}, "graphql": {}, "groovy": {},
	"haskell": {}, "html": {}, "java": {}, "javascript": {}, "json": {}, "julia": {},
	"kotlin": {}, "latex": {}, "less": {}, "lisp": {}, "livescript": {}, "lua": {},
	"makefile": {}, "markdown": {}, "markup": {}, "matlab": {}, "mermaid": {},
	"nix": {}, "objective-c": {}, "ocaml": {}, "pascal": {}, "perl": {}, "php": {},
	"plain text": {}, "powershell": {}, "prolog": {}, "protobuf": {}, "python": {},
	"r": {}, "reason": {}, "ruby": {}, "rust": {}, "sass": {}, "scala": {},
	"scheme": {}, "scss": {}, "shell": {}, "sql": {}, "swift": {}, "typescript": {},
	"vb.net": {}, "verilog": {}, "vhdl": {}, "visual basic": {}, "webassembly": {},
	"xml": {}, "yaml": {},
}
