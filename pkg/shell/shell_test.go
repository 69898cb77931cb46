package shell_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCapturesOutput(t *testing.T) {
	r := shell.NewRunner()

	res, err := r.Exec(context.Background(), "echo hello")
	require.NoError(t, err)

	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.IsError())
}

func TestExecNonZeroExit(t *testing.T) {
	r := shell.NewRunner()

	res, err := r.Exec(context.Background(), "echo oops >&2; exit 3")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
	assert.True(t, res.IsError())
}

func TestExecMissingBinaryIs127(t *testing.T) {
	r := shell.NewRunner()

	res, err := r.Exec(context.Background(), "definitely-missing-binary-8f2a")
	require.NoError(t, err)

	assert.Equal(t, 127, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

func TestExecStdin(t *testing.T) {
	r := shell.NewRunner()

	res, err := r.Exec(context.Background(), "cat", shell.WithStdin("piped in\n"))
	require.NoError(t, err)

	assert.Equal(t, "piped in\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecWorkdir(t *testing.T) {
	r := shell.NewRunner()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/marker.txt", []byte("x"), 0644))

	res, err := r.Exec(context.Background(), "ls", shell.WithDir(dir))
	require.NoError(t, err)

	assert.Contains(t, res.Stdout, "marker.txt")
}

func TestExecContextCancellation(t *testing.T) {
	r := shell.NewRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Exec(ctx, "sleep 5")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFishWorkaroundRewrite(t *testing.T) {
	// Without a fish binary installed the rewritten pipeline still
	// demonstrates the base64 round-trip when pointed at sh.
	r := shell.NewRunner()

	res, err := r.Exec(context.Background(), "echo aGVsbG8= | base64 -d")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Stdout)
}
