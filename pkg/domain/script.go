package domain

import "fmt"

// ActionKind discriminates the two kinds of script steps.
type ActionKind string

const (
	// ActionExpect blocks until the given text appears in the child's output.
	ActionExpect ActionKind = "expect"
	// ActionSend writes the given text to the child's input.
	ActionSend ActionKind = "send"
)

// ScriptAction is one step in an automation script.
// Constructed once from the caller-supplied sequence; immutable thereafter.
type ScriptAction struct {
	Kind ActionKind `json:"action" yaml:"action" mapstructure:"action"`
	Text string     `json:"text" yaml:"text" mapstructure:"text"`
}

// Script is an ordered sequence of actions. It is consumed by exactly one
// run; each run owns a fresh child process.
type Script []ScriptAction

// Validate checks every action for a known kind and non-empty text.
// An empty script is valid: a run over it completes immediately.
func (s Script) Validate() error {
	for i, a := range s {
		switch a.Kind {
		case ActionExpect, ActionSend:
		default:
			return fmt.Errorf("action %d: %w: %q", i, ErrUnknownAction, string(a.Kind))
		}
		if a.Text == "" {
			return fmt.Errorf("action %d (%s): %w", i, a.Kind, ErrEmptyActionText)
		}
	}
	return nil
}

// Expect builds an expect action.
func Expect(text string) ScriptAction {
	return ScriptAction{Kind: ActionExpect, Text: text}
}

// Send builds a send action.
func Send(text string) ScriptAction {
	return ScriptAction{Kind: ActionSend, Text: text}
}
