// Package graph renders scripts and recorded runs as Mermaid sequence
// diagrams.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunOverlay annotates a diagram with the outcome of an actual run.
type RunOverlay struct {
	// Satisfied is how many script actions finished before the run ended.
	Satisfied int
	Status    domain.Status
	// Detail carries the failure reason for non-completed statuses.
	Detail string
}

// OverlayFromResult derives the overlay for a recorded run.
func OverlayFromResult(r domain.Result) *RunOverlay {
	satisfied := 0
	for _, e := range r.Events {
		if e.Type == domain.EventMatched || e.Type == domain.EventSent {
			satisfied++
		}
	}
	return &RunOverlay{
		Satisfied: satisfied,
		Status:    r.Status,
		Detail:    r.Error,
	}
}

// GenerateMermaid produces a Mermaid sequenceDiagram for a scripted
// conversation. Expects are drawn as dashed replies from the program,
// sends as solid messages from the script. An overlay inserts a status
// note at the point where the run ended.
func GenerateMermaid(command string, script domain.Script, overlay *RunOverlay) string {
	var sb strings.Builder
	sb.WriteString("sequenceDiagram\n")
	sb.WriteString("    participant S as Script\n")
	sb.WriteString(fmt.Sprintf("    participant P as %s\n", sanitizeMermaidText(command)))

	for i, action := range script {
		if overlay != nil && i == overlay.Satisfied {
			sb.WriteString(fmt.Sprintf("    Note over S,P: %s\n", statusNote(overlay)))
		}

		switch action.Kind {
		case domain.ActionExpect:
			sb.WriteString(fmt.Sprintf("    P-->>S: %s\n", sanitizeMermaidText(action.Text)))
		case domain.ActionSend:
			sb.WriteString(fmt.Sprintf("    S->>P: %s\n", sanitizeMermaidText(action.Text)))
		}
	}

	if overlay != nil && overlay.Satisfied >= len(script) {
		sb.WriteString(fmt.Sprintf("    Note over S,P: %s\n", statusNote(overlay)))
	}

	return sb.String()
}

func statusNote(o *RunOverlay) string {
	text := string(o.Status)
	if o.Status == domain.StatusTimedOut {
		text = "⏱️ " + text
	}
	if o.Detail != "" {
		text += ": " + o.Detail
	}
	return sanitizeMermaidText(text)
}

// sanitizeMermaidText keeps action text on one diagram line. Semicolons
// terminate Mermaid statements, so they are softened to commas.
func sanitizeMermaidText(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, ";", ",")
	return s
}
