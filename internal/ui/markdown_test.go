package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("### Block Commands\n\nAppend `blocks` to a page.", 60)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(ansi.Strip(out), "Block Commands") {
		t.Errorf("heading missing from %q", out)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("want exactly one trailing newline, got %q", out)
	}

	if out, err := RenderMarkdown("plain", -1); err != nil || strings.TrimSpace(out) == "" {
		t.Errorf("RenderMarkdown with no width = %q, %v", out, err)
	}
}

func TestHelpMarkdownStyleFollowsAccent(t *testing.T) {
	prevStyle, prevColor := Accent, accentColor
	t.Cleanup(func() { Accent, accentColor = prevStyle, prevColor })

	ConfigureTheme("208")
	s := helpMarkdownStyle()
	if s.Heading.Color == nil || *s.Heading.Color != "208" {
		t.Fatalf("heading color = %v, want 208", s.Heading.Color)
	}
	if s.CodeBlock.Theme != helpCodeTheme {
		t.Fatalf("code theme = %q", s.CodeBlock.Theme)
	}
}
