// Package cli wires configuration, logging and storage into a ready
// Harness for the espalier commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
)

// NewLogger builds the application logger from the --log-level and
// --log-file flags. With a log file the output is teed to stderr and the
// file, matching the server's audit trail. The returned closer releases
// the file handle; it is safe to call when no file was opened.
func NewLogger(levelName, logFile string) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	if logFile == "" {
		return logging.New(level), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.NewTee(level, f), func() { _ = f.Close() }, nil
}

// OpenStore builds the transcript store selected by the configuration,
// wrapped in the configured persistence middleware. The returned closer
// releases backend resources (the redis connection); it is a no-op for
// the other backends.
func OpenStore(cfg *config.Config) (ports.TranscriptStore, func(), error) {
	var store ports.TranscriptStore
	closer := func() {}

	switch cfg.Store.Backend {
	case "", "memory":
		store = memory.NewStore()

	case "file":
		store = file.New(cfg.Store.Path)

	case "redis":
		var opts []redis.Option
		if cfg.Store.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if cfg.Store.Redis.TTLSeconds > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL()))
		}
		rs := redis.New(cfg.Store.Redis.Address, cfg.Store.Redis.Password, cfg.Store.Redis.DB, opts...)
		store = rs
		closer = func() { _ = rs.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	// Innermost first: transcripts are scrubbed, then sealed, then stored.
	if cfg.Store.EncryptionKey != "" {
		key, err := cfg.EncryptionKeyBytes()
		if err != nil {
			closer()
			return nil, nil, err
		}
		fallbacks, err := cfg.EncryptionFallbackKeyBytes()
		if err != nil {
			closer()
			return nil, nil, err
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    key,
			FallbackKeys: fallbacks,
		})(store)
	}
	if len(cfg.Store.PIIPatterns) > 0 {
		store = middleware.NewPIIMiddleware(cfg.Store.PIIPatterns)(store)
	}

	return store, closer, nil
}

// BuildHarness assembles a Harness from the configuration. The returned
// closer tears down the store.
func BuildHarness(cfg *config.Config, logger *slog.Logger) (*espalier.Harness, func(), error) {
	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	h := espalier.New(
		espalier.WithLogger(logger),
		espalier.WithStore(store),
		espalier.WithBlocklist(cfg.CommandBlocking.ProhibitedCommands),
		espalier.WithOverride(cfg.CommandBlocking.Override),
		espalier.WithTimeout(cfg.ExpectTimeout()),
		espalier.WithTerminator(cfg.Expect.Terminator),
	)
	return h, closeStore, nil
}

// LoadConfig reads the configuration and reports, without failing, when
// the file had to be ignored. The server keeps running on safe defaults
// rather than refusing to start over a bad config.
func LoadConfig(path string, errOut io.Writer) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(errOut, "Warning: using default configuration: %v\n", err)
	}
	return cfg
}
