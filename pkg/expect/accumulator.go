package expect

import (
	"bytes"
	"sync"
)

// accumulator is the append-only output buffer shared between the drain
// goroutine and the sequencer. A consumption cursor marks how much has
// been claimed by satisfied expects; matching only ever looks at the
// unconsumed tail. All access goes through one mutex.
type accumulator struct {
	mu     sync.Mutex
	buf    []byte
	cursor int
	notify chan struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{notify: make(chan struct{}, 1)}
}

// write appends freshly drained output and wakes a pending expect.
// Wakeups are coalesced; the waiter re-checks the buffer on every wake.
func (a *accumulator) write(p []byte) {
	a.mu.Lock()
	a.buf = append(a.buf, p...)
	a.mu.Unlock()

	select {
	case a.notify <- struct{}{}:
	default:
	}
}

// match reports whether the unconsumed region contains text as a
// contiguous substring. On a hit the cursor advances to just past the
// leftmost occurrence, so a later expect for the same text must find a
// fresh occurrence.
func (a *accumulator) match(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := bytes.Index(a.buf[a.cursor:], []byte(text))
	if idx < 0 {
		return false
	}
	a.cursor += idx + len(text)
	return true
}

// snapshot returns everything seen so far, consumed or not.
func (a *accumulator) snapshot() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return string(a.buf)
}

// wake exposes the notification channel for the expect select loop.
func (a *accumulator) wake() <-chan struct{} {
	return a.notify
}
