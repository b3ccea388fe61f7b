package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner shows progress on a terminal while a request is in flight.
// On any other writer it does nothing, so piped output stays clean.
type Spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	stopped chan struct{}
}

// NewSpinner returns an idle spinner that will draw on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message}
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Start draws frames until Stop is called. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	if s.stop != nil || !isTerminalWriter(s.w) {
		return
	}
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.stopped)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", Accent.Render(spinnerFrames[i%len(spinnerFrames)]), Muted.Render(s.message))
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-tick.C:
		}
	}
}

// Stop erases the spinner line and waits for the drawing goroutine.
func (s *Spinner) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.stopped
	s.stop = nil
}
