package espalier_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarness_RunScriptPersistsTranscript(t *testing.T) {
	store := memory.NewStore()
	h := espalier.New(espalier.WithStore(store))

	transcript, err := h.RunScript(context.Background(), "echo marker", domain.Script{
		domain.Expect("marker"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, transcript.ID)
	assert.Equal(t, domain.StatusCompleted, transcript.Result.Status)

	loaded, err := store.Load(context.Background(), transcript.ID)
	require.NoError(t, err)
	assert.Equal(t, "echo marker", loaded.Command)
	assert.Equal(t, domain.StatusCompleted, loaded.Result.Status)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestHarness_RunScriptTimeoutIsPersistedToo(t *testing.T) {
	store := memory.NewStore()
	h := espalier.New(
		espalier.WithStore(store),
		espalier.WithTimeout(300*time.Millisecond),
	)

	transcript, err := h.RunScript(context.Background(), "sleep 5", domain.Script{
		domain.Expect("never appears"),
	})
	require.NoError(t, err, "a timed-out run is a result, not an error")
	assert.Equal(t, domain.StatusTimedOut, transcript.Result.Status)
	assert.NotEmpty(t, transcript.Result.Error)

	_, err = store.Load(context.Background(), transcript.ID)
	assert.NoError(t, err, "failed runs keep their transcripts")
}

func TestHarness_RunScriptRejectsInvalidScript(t *testing.T) {
	h := espalier.New()

	_, err := h.RunScript(context.Background(), "cat", domain.Script{
		{Kind: "type", Text: "nope"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestHarness_ExecCommandBlocked(t *testing.T) {
	h := espalier.New()

	result, err := h.ExecCommand(context.Background(), "rm -rf /tmp/anything")
	assert.ErrorIs(t, err, shell.ErrCommandBlocked)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, shell.BlockedMessage, result.Stderr)
}

func TestHarness_ExecCommandOverrideBypassesBlocklist(t *testing.T) {
	h := espalier.New(espalier.WithOverride(true))

	// "echo rm -rf" trips the raw substring check, so without the
	// override it would be refused.
	result, err := h.ExecCommand(context.Background(), "echo rm -rf")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "rm -rf\n", result.Stdout)
}

func TestHarness_ExecCommandCustomBlocklist(t *testing.T) {
	h := espalier.New(espalier.WithBlocklist([]string{"shutdown "}))

	_, err := h.ExecCommand(context.Background(), "shutdown -r now")
	assert.ErrorIs(t, err, shell.ErrCommandBlocked)

	// The default entries no longer apply.
	result, err := h.ExecCommand(context.Background(), "echo rm -rf")
	require.NoError(t, err)
	assert.Equal(t, "rm -rf\n", result.Stdout)
}

func TestHarness_ExecCommandRunsPlainCommands(t *testing.T) {
	h := espalier.New()

	result, err := h.ExecCommand(context.Background(), "printf hi")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hi", result.Stdout)
	assert.Empty(t, result.Stderr)
}

func TestHarness_RejectsMalformedCommands(t *testing.T) {
	h := espalier.New()

	result, err := h.ExecCommand(context.Background(), "echo \xff\xfe")
	assert.ErrorIs(t, err, shell.ErrInvalidUTF8)
	assert.Nil(t, result)

	t.Setenv(shell.EnvMaxCommandSize, "8")
	_, err = h.RunScript(context.Background(), "echo hello there", domain.Script{
		domain.Expect("hello"),
	})
	assert.ErrorIs(t, err, shell.ErrCommandTooLarge)
}
