// Package shell executes one-shot, non-interactive commands and applies
// the configured command-blocking policy. Interactive automation lives in
// pkg/expect; this runner is for plain capture-and-return execution.
package shell

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/aretw0/espalier/internal/logging"
)

const interpreterPath = "/bin/sh"

// Result holds the captured output of one command execution.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// IsError reports whether the command signalled failure.
func (r *Result) IsError() bool {
	return r.ExitCode != 0
}

// Runner executes shell commands with captured stdio.
type Runner struct {
	interpreter string
	log         *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithLogger injects a logger; the default discards everything.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithInterpreter overrides the command interpreter.
func WithInterpreter(path string) RunnerOption {
	return func(r *Runner) {
		if path != "" {
			r.interpreter = path
		}
	}
}

// NewRunner creates a shell runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		interpreter: interpreterPath,
		log:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type execConfig struct {
	stdin string
	dir   string
}

// ExecOption configures a single execution.
type ExecOption func(*execConfig)

// WithStdin pipes the given text to the command's standard input.
func WithStdin(stdin string) ExecOption {
	return func(c *execConfig) {
		c.stdin = stdin
	}
}

// WithDir sets the command's working directory.
func WithDir(dir string) ExecOption {
	return func(c *execConfig) {
		c.dir = dir
	}
}

// Exec runs command through the interpreter and captures its output.
// Failures of the command itself (non-zero exit, missing binary) are
// reported in the Result, not as an error; the error return is reserved
// for the run not happening at all (e.g. context cancellation).
func (r *Runner) Exec(ctx context.Context, command string, opts ...ExecOption) (*Result, error) {
	cfg := execConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	command, stdin := fishWorkaround(command, cfg.stdin)

	cmd := exec.CommandContext(ctx, r.interpreter, "-c", command)
	cmd.Dir = cfg.dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound):
			res.ExitCode = 127
			res.Stderr = fmt.Sprintf("Command not found: %s\n", command)
		default:
			res.ExitCode = 1
			res.Stderr = err.Error()
		}
	}

	if res.IsError() {
		r.log.Warn("command failed", "command", command, "code", res.ExitCode)
	}
	return res, nil
}

// fishWorkaround rewrites a fish invocation with stdin into a base64
// pipeline. Fish mangles raw here-strings piped to it, so the input is
// encoded and decoded on the far side instead.
func fishWorkaround(command, stdin string) (string, string) {
	fields := strings.Fields(command)
	if len(fields) == 0 || fields[0] != "fish" || stdin == "" {
		return command, stdin
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(stdin))
	return fmt.Sprintf("echo %s | base64 -d | %s", encoded, command), ""
}
