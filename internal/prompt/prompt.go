// Package prompt implements line-based interactive questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/aidanlsb/notion-cli/internal/ui"
)

// ErrCanceled is returned when the user aborts a prompt (EOF or interrupt).
var ErrCanceled = errors.New("prompt canceled")

// IsInteractive reports whether both stdin and stderr are terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// Terminal asks questions on out and reads answers from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	// picker, when set, replaces the numbered list for Select.
	picker func(message string, options []string) (string, error)
	// secretFd is the descriptor read without echo by Secret; -1 falls back
	// to a plain line read.
	secretFd int
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithFuzzyPicker makes Select use fzf when it is installed.
func WithFuzzyPicker() Option {
	return func(t *Terminal) {
		if hasFZFInstalled() {
			t.picker = runFZFPicker
		}
	}
}

// WithSecretFd sets the terminal descriptor used for hidden input.
func WithSecretFd(fd int) Option {
	return func(t *Terminal) { t.secretFd = fd }
}

// New creates a Terminal. Prompts go to out, which should be stderr so
// command output stays clean.
func New(in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, secretFd: -1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStdio creates a Terminal on stdin/stderr with fuzzy selection and
// hidden secret input enabled.
func NewStdio() *Terminal {
	return New(os.Stdin, os.Stderr, WithFuzzyPicker(), WithSecretFd(int(os.Stdin.Fd())))
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", ErrCanceled
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) ask(message, hint string) {
	if hint != "" {
		fmt.Fprintf(t.out, "%s %s ", ui.Accent.Render("?")+" "+message, ui.Hint(hint))
		return
	}
	fmt.Fprintf(t.out, "%s ", ui.Accent.Render("?")+" "+message)
}

// Confirm asks a yes/no question. An empty answer takes defaultYes.
func (t *Terminal) Confirm(message string, defaultYes bool) (bool, error) {
	hint := "(y/N)"
	if defaultYes {
		hint = "(Y/n)"
	}
	for {
		t.ask(message, hint)
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, ui.Warning("Please answer y or n."))
	}
}

// Select asks for one of options. The answer may be the option's number, its
// exact text, or a substring matching exactly one option.
func (t *Terminal) Select(message string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", message)
	}
	if t.picker != nil {
		return t.picker(message, options)
	}
	t.list(options)
	for {
		t.ask(message, fmt.Sprintf("[1-%d]", len(options)))
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		choice, err := match(strings.TrimSpace(line), options)
		if err == nil {
			return choice, nil
		}
		fmt.Fprintln(t.out, ui.Warning(err.Error()))
	}
}

// MultiSelect asks for any number of options as a comma separated list of
// numbers or names. At least one option must be chosen.
func (t *Terminal) MultiSelect(message string, options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%s: nothing to choose from", message)
	}
	t.list(options)
	for {
		t.ask(message, "(comma separated)")
		line, err := t.readLine()
		if err != nil {
			return nil, err
		}
		var chosen []string
		seen := make(map[string]bool)
		var bad error
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			choice, err := match(part, options)
			if err != nil {
				bad = err
				break
			}
			if !seen[choice] {
				seen[choice] = true
				chosen = append(chosen, choice)
			}
		}
		switch {
		case bad != nil:
			fmt.Fprintln(t.out, ui.Warning(bad.Error()))
		case len(chosen) == 0:
			fmt.Fprintln(t.out, ui.Warning("Choose at least one option."))
		default:
			return chosen, nil
		}
	}
}

// Input asks for free text. An empty answer takes defaultValue. validate, if
// non-nil, is re-asked until it accepts the answer.
func (t *Terminal) Input(message, defaultValue string, validate func(string) error) (string, error) {
	hint := ""
	if defaultValue != "" {
		hint = "(" + defaultValue + ")"
	}
	for {
		t.ask(message, hint)
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = defaultValue
		}
		if validate != nil {
			if err := validate(answer); err != nil {
				fmt.Fprintln(t.out, ui.Warning(err.Error()))
				continue
			}
		}
		return answer, nil
	}
}

// Secret reads a line without echo when the Terminal has a terminal
// descriptor, otherwise it reads a plain line.
func (t *Terminal) Secret(message string) (string, error) {
	t.ask(message, "")
	if t.secretFd >= 0 && term.IsTerminal(t.secretFd) {
		data, err := term.ReadPassword(t.secretFd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) list(options []string) {
	width := len(strconv.Itoa(len(options)))
	for i, o := range options {
		fmt.Fprintf(t.out, "  %s %s\n", ui.Muted.Render(fmt.Sprintf("%*d)", width, i+1)), o)
	}
}

// match resolves an answer to an option: a 1-based index, the exact option
// text, or a case-insensitive substring of exactly one option.
func match(answer string, options []string) (string, error) {
	if answer == "" {
		return "", fmt.Errorf("choose an option")
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("%d is out of range 1-%d", n, len(options))
		}
		return options[n-1], nil
	}
	for _, o := range options {
		if o == answer {
			return o, nil
		}
	}
	var found []string
	needle := strings.ToLower(answer)
	for _, o := range options {
		if strings.Contains(strings.ToLower(o), needle) {
			found = append(found, o)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", fmt.Errorf("no option matches %q", answer)
	default:
		return "", fmt.Errorf("%q matches %d options, be more specific", answer, len(found))
	}
}
