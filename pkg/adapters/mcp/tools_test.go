package mcp

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResult(t *testing.T) {
	t.Run("exit code only", func(t *testing.T) {
		out := formatResult(&shell.Result{ExitCode: 0})
		assert.Equal(t, "EXIT_CODE: 0", out)
	})

	t.Run("with stdout", func(t *testing.T) {
		out := formatResult(&shell.Result{ExitCode: 0, Stdout: "hello\n"})
		assert.Equal(t, "EXIT_CODE: 0\nSTDOUT:\nhello\n", out)
	})

	t.Run("with stdout and stderr", func(t *testing.T) {
		out := formatResult(&shell.Result{ExitCode: 2, Stdout: "partial\n", Stderr: "boom\n"})
		assert.Equal(t, "EXIT_CODE: 2\nSTDOUT:\npartial\n\nSTDERR:\nboom\n", out)
	})

	t.Run("blocked shape", func(t *testing.T) {
		out := formatResult(&shell.Result{ExitCode: 1, Stderr: shell.BlockedMessage})
		assert.Contains(t, out, "EXIT_CODE: 1")
		assert.Contains(t, out, "not authorized")
	})
}

func TestExpandDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/work", ExpandDir("$HOME/work"))
	assert.Equal(t, "/home/tester/work", ExpandDir("~/work"))
	assert.Equal(t, "/home/tester", ExpandDir("~"))
	assert.Equal(t, "/tmp/plain", ExpandDir("/tmp/plain"))
	// Other users' homes are not resolved.
	assert.Equal(t, "~somebody/x", ExpandDir("~somebody/x"))
}

func TestParseActions(t *testing.T) {
	t.Run("json string", func(t *testing.T) {
		parsed, err := parseActions(`[{"action":"expect","text":"name: "},{"action":"send","text":"Ada"}]`)
		require.NoError(t, err)
		require.Len(t, parsed, 2)
		assert.Equal(t, domain.Expect("name: "), parsed[0])
		assert.Equal(t, domain.Send("Ada"), parsed[1])
	})

	t.Run("decoded array", func(t *testing.T) {
		parsed, err := parseActions([]interface{}{
			map[string]interface{}{"action": "send", "text": "y"},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.Equal(t, domain.ActionSend, parsed[0].Kind)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseActions(`[{`)
		assert.ErrorContains(t, err, "invalid actions JSON")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := parseActions(nil)
		assert.ErrorContains(t, err, "actions is required")
	})

	t.Run("unknown action kind", func(t *testing.T) {
		_, err := parseActions(`[{"action":"type","text":"x"}]`)
		assert.ErrorIs(t, err, domain.ErrUnknownAction)
	})
}
