package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandProcessor runs a subprocess with the prompt on stdin and the
// response on stdout.
type CommandProcessor struct {
	timeout time.Duration
}

// NewCommandProcessor creates a command processor. A non-positive
// timeout falls back to DefaultTimeout.
func NewCommandProcessor(timeout time.Duration) *CommandProcessor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandProcessor{timeout: timeout}
}

// Execute spawns argv, writes prompt to its stdin and returns stdout.
// The subprocess is killed when the timeout elapses.
func (p *CommandProcessor) Execute(ctx context.Context, argv []string, prompt string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		// CommandContext has already killed the process.
		return "", &TimeoutError{Timeout: p.timeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("running %s: %w", argv[0], err)
	}

	return stdout.String(), nil
}
