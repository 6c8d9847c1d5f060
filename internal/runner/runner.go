// Package runner executes extracted commands through the shell and reports
// a structured outcome.
//
// Commands run as `bash -c <command>`, so a missing binary inside the
// command surfaces as the shell's exit 127, not as a start failure. A start
// failure means the shell itself could not be spawned.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/wisp/internal/logging"
)

// Status classifies how a command run ended.
type Status string

const (
	StatusSucceeded     Status = "succeeded"
	StatusFailedNonZero Status = "failed_nonzero"
	StatusFailedToStart Status = "failed_to_start"
)

// Outcome is the result of one command run. Stdout and Stderr hold the
// captured streams separately; the same bytes are also written live to the
// Runner's writers while the command runs.
type Outcome struct {
	Status   Status
	ExitCode int    // 0 on success, the command's code for StatusFailedNonZero
	Reason   string // set only for StatusFailedToStart
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Summary renders the outcome as a short observation suitable for appending
// to the conversation.
func (o Outcome) Summary() string {
	switch o.Status {
	case StatusSucceeded:
		return "the command succeeded"
	case StatusFailedNonZero:
		return fmt.Sprintf("the command failed with exit code %d", o.ExitCode)
	default:
		return fmt.Sprintf("the command could not be started: %s", o.Reason)
	}
}

// Runner executes commands. The zero value is not usable; call New.
type Runner struct {
	// Shell is the interpreter binary, bash unless overridden.
	Shell string
	// Stdin is handed to the command so interactive commands keep working.
	Stdin io.Reader
	// Stdout and Stderr receive the command's output live, in addition to
	// the capture buffers.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Runner wired to the process's standard streams.
func New() *Runner {
	return &Runner{
		Shell:  "bash",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes command and blocks until it finishes or ctx is done. When
// ctx is canceled the command process is killed before Run returns, so an
// interrupt never leaves a detached command running.
func (r *Runner) Run(ctx context.Context, command string) Outcome {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdin = r.Stdin
	cmd.Stdout = io.MultiWriter(r.Stdout, &stdout)
	cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	// Unblocks Wait if a background child of the shell inherits the output
	// pipes and outlives it.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()

	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	classify(err, &out)

	logging.L().Debug("command finished",
		zap.String("status", string(out.Status)),
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("duration", out.Duration))
	return out
}

func classify(err error, out *Outcome) {
	if err == nil {
		out.Status = StatusSucceeded
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.Status = StatusFailedNonZero
		out.ExitCode = exitErr.ExitCode()
		return
	}

	out.Status = StatusFailedToStart
	out.Reason = startFailureReason(err)
}

func startFailureReason(err error) string {
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return "shell not found"
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, exec.ErrNotFound) {
		return "shell not found"
	}
	return err.Error()
}

var builtins = map[string]bool{
	"cd":     true,
	"export": true,
	"alias":  true,
	"source": true,
	"unset":  true,
}

// IsBuiltin reports whether command starts with a shell builtin that would
// only mutate the subshell and so cannot usefully run here.
func IsBuiltin(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	return builtins[fields[0]]
}
