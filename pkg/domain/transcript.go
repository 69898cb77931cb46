package domain

import "time"

// Transcript is the persisted envelope of one run. Stores save and load
// transcripts whole; they are never mutated after creation.
type Transcript struct {
	ID        string    `json:"id" yaml:"id" mapstructure:"id"`
	Command   string    `json:"command" yaml:"command" mapstructure:"command"`
	Script    Script    `json:"script,omitempty" yaml:"script,omitempty" mapstructure:"script"`
	Result    Result    `json:"result" yaml:"result" mapstructure:"result"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" mapstructure:"created_at"`
}

// NewTranscript wraps a run result for persistence.
func NewTranscript(id, command string, script Script, result Result) *Transcript {
	return &Transcript{
		ID:        id,
		Command:   command,
		Script:    script,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
}
