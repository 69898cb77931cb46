package expect

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// shellPath interprets the command line, so callers may use pipes,
// quoting, and other shell metacharacters.
const shellPath = "/bin/sh"

// drainGrace bounds how long an exit path waits for the drain loop to
// deliver output still buffered in the terminal.
const drainGrace = 250 * time.Millisecond

// Session is one live automation run: the child process, its terminal,
// the output accumulator, and the goroutines servicing them. A session
// must not be driven from two callers concurrently, and must be closed
// on every exit path.
type Session struct {
	cmd        *exec.Cmd
	ptmx       *os.File
	acc        *accumulator
	opts       options
	exitCh     chan struct{}
	readerDone chan struct{}

	mu       sync.RWMutex
	closed   bool
	exitCode int

	closeOnce sync.Once
	closeErr  error
}

// NewSession spawns command under a pseudo-terminal and starts draining
// its output. Fails with *SpawnError if the program cannot be found, the
// working directory is invalid, or the terminal cannot be allocated.
func NewSession(command string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := preflight(command); err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	cmd := exec.Command(shellPath, "-c", command)
	cmd.Dir = o.dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, o.env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: o.rows, Cols: o.cols})
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	s := &Session{
		cmd:        cmd,
		ptmx:       ptmx,
		acc:        newAccumulator(),
		opts:       o,
		exitCh:     make(chan struct{}),
		readerDone: make(chan struct{}),
	}

	o.logger.Debug("session spawned", "command", command, "pid", cmd.Process.Pid)

	go s.drain()
	go s.monitor()

	return s, nil
}

// preflight rejects blank commands and, for plain commands with no shell
// metacharacters, resolves the program up front so a missing binary
// surfaces as a spawn failure instead of a shell exit 127.
func preflight(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ErrEmptyCommand
	}
	if strings.ContainsAny(command, "|&;<>()$`\\\"'") {
		return nil
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return err
	}
	return nil
}

// drain continuously moves child output into the accumulator. It must
// not stop between actions, or output produced between two expects would
// be lost. The loop ends when the terminal reports EOF or an error,
// which on Linux is how a closed child side presents itself.
func (s *Session) drain() {
	defer close(s.readerDone)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.acc.write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// monitor reaps the child and records its exit. The closed flag flips
// before exitCh so a waiter observing the exit also observes that sends
// are no longer possible.
func (s *Session) monitor() {
	err := s.cmd.Wait()

	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	s.mu.Lock()
	s.closed = true
	s.exitCode = code
	s.mu.Unlock()

	s.opts.logger.Debug("child exited", "code", code)
	close(s.exitCh)
}

// Expect blocks until text appears in the unconsumed output, the
// per-expect deadline elapses, the child exits, or ctx is done —
// whichever happens first. Buffer content is checked before liveness on
// every wakeup, so text that appeared just before an exit still matches.
func (s *Session) Expect(ctx context.Context, text string) error {
	timer := time.NewTimer(s.opts.timeout)
	defer timer.Stop()

	for {
		if s.acc.match(text) {
			s.opts.logger.Debug("expect matched", "text", text)
			return nil
		}

		select {
		case <-s.acc.wake():
		case <-timer.C:
			if s.acc.match(text) {
				return nil
			}
			return ErrTimeout
		case <-s.exitCh:
			s.awaitDrain()
			if s.acc.match(text) {
				return nil
			}
			return ErrProcessExited
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Send writes text plus the configured terminator to the child's input.
// Fails with *WriteError if the input channel is already closed.
func (s *Session) Send(text string) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return &WriteError{Err: ErrSessionClosed}
	}

	if _, err := s.ptmx.Write([]byte(text + s.opts.terminator)); err != nil {
		return &WriteError{Err: err}
	}
	s.opts.logger.Debug("sent", "text", text)
	return nil
}

// Wait blocks until the child exits and returns its exit code, or until
// ctx is done.
func (s *Session) Wait(ctx context.Context) (int, error) {
	select {
	case <-s.exitCh:
		return s.exitCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ExitCode returns the child's exit code and whether its termination has
// been observed yet.
func (s *Session) ExitCode() (int, bool) {
	select {
	case <-s.exitCh:
		return s.exitCode, true
	default:
		return 0, false
	}
}

// Output returns everything the child has written so far.
func (s *Session) Output() string {
	return s.acc.snapshot()
}

// awaitDrain gives the drain loop a bounded window to deliver output
// still buffered at the moment of exit.
func (s *Session) awaitDrain() {
	select {
	case <-s.readerDone:
	case <-time.After(drainGrace):
	}
}

// Close terminates the child if it is still running, reaps it, and
// releases the terminal. Idempotent; safe on every exit path.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		select {
		case <-s.exitCh:
			// Already exited and reaped.
		default:
			_ = s.cmd.Process.Kill()
			<-s.exitCh
		}

		s.closeErr = s.ptmx.Close()
		s.awaitDrain()
	})
	return s.closeErr
}
