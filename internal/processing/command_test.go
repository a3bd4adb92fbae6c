package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandProcessorEchoesStdout(t *testing.T) {
	p := NewCommandProcessor(10 * time.Second)

	out, err := p.Execute(context.Background(), []string{"cat"}, "prompt on stdin")
	require.NoError(t, err)
	assert.Equal(t, "prompt on stdin", out)
}

func TestCommandProcessorArguments(t *testing.T) {
	p := NewCommandProcessor(10 * time.Second)

	out, err := p.Execute(context.Background(), []string{"echo", "-n", "hello"}, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestCommandProcessorEmptyArgv(t *testing.T) {
	p := NewCommandProcessor(10 * time.Second)

	_, err := p.Execute(context.Background(), nil, "x")
	require.Error(t, err)
}

func TestCommandProcessorNonZeroExit(t *testing.T) {
	p := NewCommandProcessor(10 * time.Second)

	_, err := p.Execute(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, "")
	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Equal(t, "oops", procErr.Stderr)
}

func TestCommandProcessorTimeout(t *testing.T) {
	p := NewCommandProcessor(100 * time.Millisecond)

	start := time.Now()
	_, err := p.Execute(context.Background(), []string{"sleep", "10"}, "")
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 100*time.Millisecond, timeoutErr.Timeout)
	assert.Less(t, time.Since(start), 5*time.Second, "process must be killed at the deadline")
}

func TestCommandProcessorMissingBinary(t *testing.T) {
	p := NewCommandProcessor(10 * time.Second)

	_, err := p.Execute(context.Background(), []string{"definitely-not-a-binary-xyz"}, "")
	require.Error(t, err)
	var procErr *ProcessError
	assert.False(t, errors.As(err, &procErr), "start failures are not exit failures")
}

func TestCommandProcessorZeroTimeoutUsesDefault(t *testing.T) {
	p := NewCommandProcessor(0)
	assert.Equal(t, DefaultTimeout, p.timeout)
}
