package expect

import (
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
)

const (
	// DefaultTimeout bounds how long a single expect may wait for its text.
	DefaultTimeout = 30 * time.Second

	// DefaultTerminator is appended to every send. Set an empty terminator
	// to write exact bytes only.
	DefaultTerminator = "\n"

	defaultRows = 24
	defaultCols = 80
)

type options struct {
	timeout    time.Duration
	terminator string
	dir        string
	env        []string
	rows       uint16
	cols       uint16
	logger     *slog.Logger
}

// Option configures a session.
type Option func(*options)

func defaultOptions() options {
	return options{
		timeout:    DefaultTimeout,
		terminator: DefaultTerminator,
		rows:       defaultRows,
		cols:       defaultCols,
		logger:     logging.NewNop(),
	}
}

// WithTimeout sets the global per-expect deadline. There is no per-action
// override; one bound governs every expect in a run.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTerminator sets the line terminator appended to sends. An empty
// string makes sends write exact bytes with nothing appended.
func WithTerminator(t string) Option {
	return func(o *options) {
		o.terminator = t
	}
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithEnv appends extra KEY=VALUE pairs to the child's environment.
func WithEnv(env []string) Option {
	return func(o *options) {
		o.env = append(o.env, env...)
	}
}

// WithSize sets the pseudo-terminal dimensions.
func WithSize(rows, cols uint16) Option {
	return func(o *options) {
		if rows > 0 {
			o.rows = rows
		}
		if cols > 0 {
			o.cols = cols
		}
	}
}

// WithLogger injects a logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
