package domain

// Status is the terminal condition of a run.
type Status string

const (
	StatusCompleted     Status = "completed"      // Script exhausted, all actions satisfied
	StatusTimedOut      Status = "timed-out"      // An expect was not matched within the deadline
	StatusProcessExited Status = "process-exited" // Child ended before a pending expect matched
	StatusActionFailed  Status = "action-failed"  // A send failed (input channel closed)
	StatusCanceled      Status = "canceled"       // Caller canceled the run mid-flight
)

// EventType classifies transcript entries.
type EventType string

const (
	EventMatched EventType = "expected-matched"
	EventSent    EventType = "sent"
	EventExit    EventType = "exit"
)

// Event is one entry in a run's transcript.
// For EventExit the text carries the decimal exit code.
type Event struct {
	Type EventType `json:"type" yaml:"type" mapstructure:"type"`
	Text string    `json:"text" yaml:"text" mapstructure:"text"`
}

// Result is the terminal record of one run. Immutable once produced.
type Result struct {
	Status Status  `json:"status" yaml:"status" mapstructure:"status"`
	Events []Event `json:"events" yaml:"events" mapstructure:"events"`

	// Output is everything the child wrote up to the moment the result
	// was sealed, regardless of how far the matcher consumed it.
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`

	// ExitCode is set only if the child's termination was observed
	// during the run.
	ExitCode *int `json:"exit_code,omitempty" yaml:"exit_code,omitempty" mapstructure:"exit_code"`

	// Error holds a human-readable reason for non-completed statuses.
	Error string `json:"error,omitempty" yaml:"error,omitempty" mapstructure:"error"`
}

// Completed reports whether the run satisfied its whole script.
func (r *Result) Completed() bool {
	return r.Status == StatusCompleted
}
