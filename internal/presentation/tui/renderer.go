package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It automatically detects light/dark backgrounds.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TranscriptMarkdown formats a transcript as markdown for terminal
// display.
func TranscriptMarkdown(t *domain.Transcript) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", t.ID)
	fmt.Fprintf(&b, "- **Command:** `%s`\n", t.Command)
	fmt.Fprintf(&b, "- **Status:** %s\n", t.Result.Status)
	if t.Result.ExitCode != nil {
		fmt.Fprintf(&b, "- **Exit code:** %d\n", *t.Result.ExitCode)
	}
	if t.Result.Error != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", t.Result.Error)
	}

	if len(t.Result.Events) > 0 {
		b.WriteString("\n## Events\n\n")
		for _, e := range t.Result.Events {
			fmt.Fprintf(&b, "1. `%s` %s\n", e.Type, strconv.Quote(e.Text))
		}
	}

	if t.Result.Output != "" {
		b.WriteString("\n## Output\n\n")
		fmt.Fprintf(&b, "```\n%s\n```\n", strings.TrimRight(t.Result.Output, "\r\n"))
	}

	return b.String()
}
