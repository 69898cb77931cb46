package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		script   domain.Script
		overlay  *graph.RunOverlay
		contains []string
	}{
		{
			name:    "Expect And Send Arrows",
			command: "python3 quiz.py",
			script: domain.Script{
				domain.Expect("Length of side a: "),
				domain.Send("3"),
			},
			contains: []string{
				"sequenceDiagram",
				"participant P as python3 quiz.py",
				"P-->>S: Length of side a: ",
				"S->>P: 3",
			},
		},
		{
			name:    "Text Sanitization",
			command: "sh",
			script: domain.Script{
				domain.Expect("line one\nline two"),
				domain.Send("a; b"),
			},
			contains: []string{
				`P-->>S: line one\nline two`,
				"S->>P: a, b",
			},
		},
		{
			name:    "Overlay Marks Where The Run Stopped",
			command: "quiz",
			script: domain.Script{
				domain.Expect("a: "),
				domain.Send("3"),
				domain.Expect("never shown"),
			},
			overlay: &graph.RunOverlay{
				Satisfied: 2,
				Status:    domain.StatusTimedOut,
				Detail:    `no match for "never shown"`,
			},
			contains: []string{
				"S->>P: 3",
				"Note over S,P: ⏱️ timed-out: no match for",
			},
		},
		{
			name:    "Completed Overlay Notes At The End",
			command: "quiz",
			script: domain.Script{
				domain.Expect("a: "),
			},
			overlay: &graph.RunOverlay{
				Satisfied: 1,
				Status:    domain.StatusCompleted,
			},
			contains: []string{
				"P-->>S: a: \n    Note over S,P: completed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.command, tt.script, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestOverlayFromResult(t *testing.T) {
	exit := 0
	overlay := graph.OverlayFromResult(domain.Result{
		Status: domain.StatusProcessExited,
		Events: []domain.Event{
			{Type: domain.EventMatched, Text: "a: "},
			{Type: domain.EventSent, Text: "3"},
			{Type: domain.EventExit, Text: "0"},
		},
		Error:    "process exited before match",
		ExitCode: &exit,
	})

	if overlay.Satisfied != 2 {
		t.Errorf("Satisfied = %d, want 2 (exit events do not count)", overlay.Satisfied)
	}
	if overlay.Status != domain.StatusProcessExited {
		t.Errorf("Status = %s", overlay.Status)
	}
}
