package espalier

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/metrics"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/expect"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/google/uuid"
)

// Version is the release version. Overridden at build time via ldflags.
var Version = "0.1.0"

// Harness is the high-level entry point for the Espalier library.
// It ties the expect engine, the shell runner with its blocklist, and
// transcript persistence together behind one API.
type Harness struct {
	logger     *slog.Logger
	store      ports.TranscriptStore
	metrics    *metrics.Metrics
	runner     *shell.Runner
	guard      *shell.Blocklist
	override   bool
	timeout    time.Duration
	terminator string
}

// Option defines a functional option for configuring the Harness.
type Option func(*Harness)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithStore injects a transcript store, replacing the default
// in-memory one.
func WithStore(store ports.TranscriptStore) Option {
	return func(h *Harness) {
		if store != nil {
			h.store = store
		}
	}
}

// WithBlocklist replaces the default prohibited command entries.
func WithBlocklist(entries []string) Option {
	return func(h *Harness) {
		h.guard = shell.NewBlocklist(entries)
	}
}

// WithOverride disables command blocking entirely.
func WithOverride(override bool) Option {
	return func(h *Harness) {
		h.override = override
	}
}

// WithTimeout sets the default per-expect timeout for script runs.
func WithTimeout(d time.Duration) Option {
	return func(h *Harness) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithTerminator sets the line terminator appended to sent script
// input.
func WithTerminator(terminator string) Option {
	return func(h *Harness) {
		h.terminator = terminator
	}
}

// New initializes a new Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger:     logging.NewNop(),
		metrics:    metrics.New(),
		guard:      shell.NewBlocklist(shell.DefaultProhibited),
		timeout:    expect.DefaultTimeout,
		terminator: expect.DefaultTerminator,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.store == nil {
		h.store = memory.NewStore()
	}
	h.runner = shell.NewRunner(shell.WithLogger(h.logger))

	return h
}

// RunScript spawns the command and plays the script against it,
// returning the persisted transcript. Extra engine options are applied
// after the harness defaults, so callers can override the timeout or
// working directory per run.
//
// An error is returned only when the command or script is invalid or
// the process cannot be spawned. Everything after a successful spawn,
// including timeouts and early exits, is reported through the
// transcript status.
func (h *Harness) RunScript(ctx context.Context, command string, script domain.Script, extra ...expect.Option) (*domain.Transcript, error) {
	command, err := shell.SanitizeCommand(command)
	if err != nil {
		return nil, err
	}

	engineOpts := []expect.Option{
		expect.WithTimeout(h.timeout),
		expect.WithTerminator(h.terminator),
		expect.WithLogger(h.logger),
	}
	engineOpts = append(engineOpts, extra...)

	start := time.Now()
	result, err := expect.Run(ctx, command, script, engineOpts...)
	if err != nil {
		return nil, err
	}
	h.metrics.RecordRun(result.Status, time.Since(start))

	transcript := domain.NewTranscript(uuid.NewString(), command, script, *result)

	// Persist even when the run context is already canceled.
	saveCtx := context.WithoutCancel(ctx)
	if err := h.store.Save(saveCtx, transcript); err != nil {
		h.logger.Warn("failed to persist transcript", "id", transcript.ID, "error", err)
	}

	h.logger.Info("script run finished",
		"id", transcript.ID,
		"command", command,
		"status", result.Status,
	)

	return transcript, nil
}

// ExecCommand runs a one-shot shell command through the blocklist.
// Oversized or malformed input is rejected before any check runs.
// Blocked commands return a result carrying the standard refusal
// message together with shell.ErrCommandBlocked.
func (h *Harness) ExecCommand(ctx context.Context, command string, opts ...shell.ExecOption) (*shell.Result, error) {
	command, err := shell.SanitizeCommand(command)
	if err != nil {
		h.logger.Warn("command rejected before execution", "error", err)
		h.metrics.RecordCommand("rejected")
		return nil, err
	}

	if h.override {
		h.logger.Warn("command restrictions bypassed via config override")
	} else if err := h.guard.Check(command); err != nil {
		h.logger.Warn("blocked command denied", "command", command)
		h.metrics.RecordCommand("blocked")
		return &shell.Result{Stderr: shell.BlockedMessage, ExitCode: 1}, err
	}

	result, err := h.runner.Exec(ctx, command, opts...)
	if err != nil {
		h.metrics.RecordCommand("failed")
		return result, err
	}

	if result.IsError() {
		h.metrics.RecordCommand("failed")
	} else {
		h.metrics.RecordCommand("ok")
	}
	return result, nil
}

// Transcripts returns the configured transcript store.
func (h *Harness) Transcripts() ports.TranscriptStore {
	return h.store
}

// MetricsHandler returns the HTTP handler exposing the harness metrics.
func (h *Harness) MetricsHandler() http.Handler {
	return h.metrics.Handler()
}

// CountToolCall records an MCP tool invocation for the metrics series.
func (h *Harness) CountToolCall(tool string) {
	h.metrics.RecordToolCall(tool)
}
