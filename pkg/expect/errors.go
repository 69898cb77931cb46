package expect

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned by Expect when the deadline elapses with no match.
var ErrTimeout = errors.New("expect timed out")

// ErrProcessExited is returned by Expect when the child terminates before
// the awaited text appears.
var ErrProcessExited = errors.New("process exited before match")

// ErrSessionClosed is returned (wrapped in a WriteError) when a send is
// attempted after the child's input channel has closed.
var ErrSessionClosed = errors.New("session closed")

// ErrEmptyCommand is returned when a session is spawned with a blank command.
var ErrEmptyCommand = errors.New("command must not be empty")

// SpawnError reports that the child process could not be started: the
// program was not found, the working directory is invalid, or the host
// could not allocate a terminal. No run is attempted.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// WriteError reports a failed send, typically because the child already
// exited and its input channel closed.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to child failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
