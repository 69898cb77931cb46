package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxCommandSize is 4KB (conservative default)
	DefaultMaxCommandSize = 4096
	// EnvMaxCommandSize is the environment variable to override the default
	EnvMaxCommandSize = "ESPALIER_MAX_COMMAND_SIZE"
)

var (
	ErrCommandTooLarge = errors.New("command exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("command contains invalid UTF-8 sequences")
)

// SanitizeCommand cleans a command string received from a remote caller
// by enforcing size limits, validating UTF-8, and stripping control
// characters. This prevents log poisoning and terminal corruption before
// the command ever reaches the blocklist or the interpreter.
func SanitizeCommand(command string) (string, error) {
	// 1. Enforce Size Limit
	limit := getMaxCommandSize()
	if len(command) > limit {
		// Reject rather than truncate; a truncated command could mean
		// something else entirely.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrCommandTooLarge, len(command), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(command) {
		return "", ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	// Newline, tab and carriage return are preserved; ANSI escapes, NULL,
	// BEL and the rest are removed.

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range command {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return command, nil
	}

	// Slow path: build clean string
	var b strings.Builder
	b.Grow(len(command))
	for _, r := range command {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxCommandSize() int {
	if val := os.Getenv(EnvMaxCommandSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxCommandSize
}
