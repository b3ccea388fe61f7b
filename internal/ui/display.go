package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth applies to pipes, files and terminals whose size is unknown.
const DefaultTermWidth = 120

// DisplayContext describes where output is going.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects w. Only an *os.File attached to a terminal
// counts as a TTY; its width is queried from the terminal.
func NewDisplayContext(w io.Writer) *DisplayContext {
	dc := &DisplayContext{TermWidth: DefaultTermWidth}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return dc
	}
	dc.IsTTY = true
	if cols, _, err := term.GetSize(f.Fd()); err == nil && cols > 0 {
		dc.TermWidth = cols
	}
	return dc
}

// NewDisplayContextWithWidth fakes a terminal of the given width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}
