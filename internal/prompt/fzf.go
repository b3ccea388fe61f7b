package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var fzfLookPath = exec.LookPath

func hasFZFInstalled() bool {
	_, err := fzfLookPath("fzf")
	return err == nil
}

// runFZFPicker lets the user fuzzy-pick one option with fzf. Escape or
// Ctrl-C in fzf cancels the prompt.
func runFZFPicker(message string, options []string) (string, error) {
	args := []string{
		"--layout=reverse",
		"--height=40%",
		"--border",
		"--prompt", message + "> ",
	}
	cmd := exec.Command("fzf", args...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n") + "\n")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code == 1 || code == 130 {
				return "", ErrCanceled
			}
		}
		return "", fmt.Errorf("run fzf selector: %w", err)
	}

	selection := strings.TrimRight(stdout.String(), "\r\n")
	for _, o := range options {
		if o == selection {
			return o, nil
		}
	}
	return "", ErrCanceled
}
