// Package processing turns a rendered prompt into a response string
// via a subprocess or an HTTP endpoint, with per-invocation timeouts.
package processing

import (
	"fmt"
	"time"
)

// DefaultTimeout applies when a hook does not configure one.
const DefaultTimeout = 30 * time.Second

// TimeoutError reports that a processor invocation exceeded its bound.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("processor timed out after %s", e.Timeout)
}

// ProcessError reports a subprocess that exited non-zero.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("command exited with code %d: %s", e.ExitCode, e.Stderr)
}

// RemoteError reports a non-2xx response from an HTTP processor.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("http processor returned status %d: %s", e.StatusCode, e.Body)
}
