package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/notion-cli/docs"
	"github.com/aidanlsb/notion-cli/internal/commands"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

var (
	helpDisplayContext = ui.NewDisplayContext
	helpMarkdownRender = ui.RenderMarkdown
)

// hasHelpVerbose reports whether --help-verbose appears before any "--".
// It is checked ahead of cobra so the flag works with or without a command.
func hasHelpVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "--help-verbose" {
			return true
		}
	}
	return false
}

// printVerboseHelp writes the long-form reference followed by a summary of
// every command. Terminals get rendered markdown.
func printVerboseHelp(w io.Writer) error {
	content := docs.EnhancedHelp + "\n" + commandIndex()

	display := helpDisplayContext(w)
	if display.IsTTY {
		if rendered, err := helpMarkdownRender(content, display.TermWidth); err == nil {
			_, err = io.WriteString(w, rendered)
			return err
		}
	}
	_, err := io.WriteString(w, content)
	return err
}

// commandIndex lists every registered command as markdown.
func commandIndex() string {
	var b strings.Builder
	b.WriteString("## Command Index\n\n")
	for _, path := range commands.AllCommandPaths() {
		meta, ok := commands.GetCommandMeta(path)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- `notion-cli %s`: %s\n", path, meta.Description)
	}
	return b.String()
}
