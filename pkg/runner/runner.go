package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Command is an external program invocation
type Command struct {
	Name string
	Args []string
	Env  []string // appended to the current environment
}

// String renders the command line for logs. Env is left out on purpose,
// it may hold credentials.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a command that ran to completion
type Result struct {
	ExitCode int
	Output   []byte // combined stdout and stderr
}

// Runner runs external commands. A non-zero exit status is reported in
// Result.ExitCode, the error is reserved for commands that could not run.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// DefaultMaxOutput is how much output Exec keeps in Result.Output
const DefaultMaxOutput = 64 << 10

// Exec runs commands with os/exec, blocking until they exit. Output is
// copied to Stdout/Stderr while the last MaxOutput bytes are captured.
type Exec struct {
	Stdout    io.Writer
	Stderr    io.Writer
	MaxOutput int
	logger    zerolog.Logger
}

// NewExec creates a runner attached to the process's stdout and stderr
func NewExec(logger zerolog.Logger) *Exec {
	return &Exec{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		MaxOutput: DefaultMaxOutput,
		logger:    logger,
	}
}

// Run executes cmd and waits for it
func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	e.logger.Debug().Str("command", cmd.String()).Msg("running command")

	captured := &tailBuffer{max: e.MaxOutput}
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = os.Stdin
	c.Stdout = io.MultiWriter(writerOrDiscard(e.Stdout), captured)
	c.Stderr = io.MultiWriter(writerOrDiscard(e.Stderr), captured)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	err := c.Run()
	result := Result{Output: captured.buf}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		result.ExitCode = exitErr.ExitCode()
		e.logger.Debug().
			Str("command", cmd.Name).
			Int("exit_code", result.ExitCode).
			Msg("command exited with non-zero status")
		return result, nil
	}

	return result, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last max bytes written to it; max <= 0 keeps nothing.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if t.max <= 0 {
		return n, nil
	}
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}
