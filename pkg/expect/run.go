package expect

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/espalier/pkg/domain"
)

// Run spawns command and walks script strictly in order, delegating
// expects to the session's matcher and sends to the child's input. It
// stops at the first failure and always returns the transcript captured
// up to that point; the child is terminated and reaped on every path.
//
// The returned error is non-nil only when no run was attempted at all
// (invalid script or spawn failure). Every other outcome — including
// timeouts, early exits, and cancellation — is a Result status.
func Run(ctx context.Context, command string, script domain.Script, opts ...Option) (*domain.Result, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	sess, err := NewSession(command, opts...)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	res := &domain.Result{
		Status: domain.StatusCompleted,
		Events: []domain.Event{},
	}

	for _, action := range script {
		switch action.Kind {
		case domain.ActionExpect:
			if err := sess.Expect(ctx, action.Text); err != nil {
				res.Status = statusFor(err)
				res.Error = fmt.Sprintf("expect %q: %v", action.Text, err)
				return seal(res, sess), nil
			}
			res.Events = append(res.Events, domain.Event{Type: domain.EventMatched, Text: action.Text})

		case domain.ActionSend:
			if err := sess.Send(action.Text); err != nil {
				res.Status = domain.StatusActionFailed
				res.Error = fmt.Sprintf("send %q: %v", action.Text, err)
				return seal(res, sess), nil
			}
			res.Events = append(res.Events, domain.Event{Type: domain.EventSent, Text: action.Text})
		}
	}

	// Script exhausted with nothing pending: completed, whether or not
	// the child is still running. The deferred Close reaps it.
	return seal(res, sess), nil
}

// statusFor maps an expect failure onto the result taxonomy.
func statusFor(err error) domain.Status {
	switch {
	case errors.Is(err, ErrTimeout):
		return domain.StatusTimedOut
	case errors.Is(err, ErrProcessExited):
		return domain.StatusProcessExited
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.StatusCanceled
	default:
		return domain.StatusActionFailed
	}
}

// seal captures the output snapshot and, when the child's own
// termination was observed during the run, the exit code and its
// transcript event. A child killed afterwards by Close is not recorded;
// only exits the run itself witnessed are.
func seal(res *domain.Result, sess *Session) *domain.Result {
	res.Output = sess.Output()
	if code, ok := sess.ExitCode(); ok {
		res.ExitCode = &code
		res.Events = append(res.Events, domain.Event{Type: domain.EventExit, Text: strconv.Itoa(code)})
	}
	return res
}
