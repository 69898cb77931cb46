package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTranscriptStoreContract runs a suite of tests to verify that a
// TranscriptStore implementation adheres to the interface contract.
func RunTranscriptStoreContract(t *testing.T, store TranscriptStore) {
	ctx := context.Background()
	id := "contract-test-" + time.Now().Format("20060102150405")

	exitCode := 0
	sample := func(id string) *domain.Transcript {
		return domain.NewTranscript(id, "python3 quiz.py", domain.Script{
			domain.Expect("Length of side a: "),
			domain.Send("3"),
		}, domain.Result{
			Status:   domain.StatusCompleted,
			Events:   []domain.Event{{Type: domain.EventMatched, Text: "Length of side a: "}},
			Output:   "Length of side a: 3\r\n",
			ExitCode: &exitCode,
		})
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, sample(id))
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, "python3 quiz.py", loaded.Command)
		assert.Equal(t, domain.StatusCompleted, loaded.Result.Status)
		require.NotNil(t, loaded.Result.ExitCode)
		assert.Equal(t, 0, *loaded.Result.ExitCode)
		require.Len(t, loaded.Result.Events, 1)
		assert.Equal(t, domain.EventMatched, loaded.Result.Events[0].Type)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		first := sample(id)
		first.Command = "first"
		require.NoError(t, store.Save(ctx, first))

		second := sample(id)
		second.Command = "second"
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Command)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(id)))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound, "Load after Delete should return ErrTranscriptNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete of a missing transcript is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, sample(id1))
		_ = store.Save(ctx, sample(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
