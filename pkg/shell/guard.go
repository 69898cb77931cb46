package shell

import (
	"errors"
	"regexp"
	"strings"
)

// BlockedMessage is the feedback returned to callers for denied commands.
const BlockedMessage = "This server is not authorized to run these commands"

// ErrCommandBlocked is returned when a command matches the prohibited list.
var ErrCommandBlocked = errors.New("command blocked by policy")

// DefaultProhibited is the safe default blocking list. The trailing
// spaces matter for the raw substring check: "rm " blocks "rm -rf x"
// without blocking "firm grip".
var DefaultProhibited = []string{"rm ", "mv ", "sudo ", "su "}

// segmentPattern splits compound commands so "a && rm -r b" is checked
// per segment.
var segmentPattern = regexp.MustCompile(`[;&|]+`)

// Blocklist decides whether a command line is prohibited. Matching is
// case-insensitive and two-layered: a word-boundary pattern over each
// command segment, and the raw substring check over the whole line.
type Blocklist struct {
	prohibited []string
	word       *regexp.Regexp
}

// NewBlocklist compiles a blocklist from the prohibited command list.
func NewBlocklist(prohibited []string) *Blocklist {
	b := &Blocklist{prohibited: prohibited}

	cleaned := make([]string, 0, len(prohibited))
	for _, p := range prohibited {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, regexp.QuoteMeta(strings.ToLower(trimmed)))
		}
	}
	if len(cleaned) > 0 {
		// Catches the command followed by whitespace or a flag dash,
		// e.g. "rm -rf" and "sudo ls".
		b.word = regexp.MustCompile(`\b(` + strings.Join(cleaned, "|") + `)[\s-]`)
	}
	return b
}

// Blocked reports whether command matches the prohibited list.
func (b *Blocklist) Blocked(command string) bool {
	if b.word == nil {
		return false
	}

	lower := strings.ToLower(command)

	for _, part := range segmentPattern.Split(lower, -1) {
		if b.word.MatchString(strings.TrimSpace(part)) {
			return true
		}
	}

	for _, block := range b.prohibited {
		if block != "" && strings.Contains(lower, strings.ToLower(block)) {
			return true
		}
	}
	return false
}

// Check returns ErrCommandBlocked for prohibited commands.
func (b *Blocklist) Check(command string) error {
	if b.Blocked(command) {
		return ErrCommandBlocked
	}
	return nil
}
