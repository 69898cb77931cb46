package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulatorMatchAdvancesCursor(t *testing.T) {
	a := newAccumulator()
	a.write([]byte("not ready\nready\n"))

	// Substring containment: the leftmost occurrence sits inside
	// "not ready" and is the one consumed.
	assert.True(t, a.match("ready"))

	// The second expect must claim the later, standalone occurrence.
	assert.True(t, a.match("ready"))

	// Both occurrences consumed; a third needs fresh output.
	assert.False(t, a.match("ready"))

	a.write([]byte("ready\n"))
	assert.True(t, a.match("ready"))
}

func TestAccumulatorNoRescanOfConsumedOutput(t *testing.T) {
	a := newAccumulator()
	a.write([]byte("ok\n"))

	assert.True(t, a.match("ok"))
	assert.False(t, a.match("ok"), "a consumed occurrence must not satisfy a later expect")

	a.write([]byte("ok\n"))
	assert.True(t, a.match("ok"))
}

func TestAccumulatorMatchSpansWrites(t *testing.T) {
	a := newAccumulator()
	a.write([]byte("rea"))
	assert.False(t, a.match("ready"))

	a.write([]byte("dy\n"))
	assert.True(t, a.match("ready"), "text split across two reads must still match")
}

func TestAccumulatorAbsentText(t *testing.T) {
	a := newAccumulator()
	assert.False(t, a.match("anything"))

	a.write([]byte("loading...\n"))
	assert.False(t, a.match("ready"))
}

func TestAccumulatorSnapshotKeepsConsumedOutput(t *testing.T) {
	a := newAccumulator()
	a.write([]byte("first\n"))
	assert.True(t, a.match("first"))
	a.write([]byte("second\n"))

	assert.Equal(t, "first\nsecond\n", a.snapshot())
}

func TestAccumulatorWriteWakesWaiter(t *testing.T) {
	a := newAccumulator()
	a.write([]byte("x"))

	select {
	case <-a.wake():
	default:
		t.Fatal("write should leave a wakeup pending")
	}

	// Wakeups coalesce rather than accumulate.
	a.write([]byte("y"))
	a.write([]byte("z"))
	<-a.wake()
	select {
	case <-a.wake():
		t.Fatal("coalesced notify should hold at most one pending wakeup")
	default:
	}
}
