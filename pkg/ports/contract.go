package ports

import (
	"context"
	"testing"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSlotContract runs a suite of tests to verify that a Slot implementation
// adheres to the defined interface contract. The slot must start empty.
func RunSlotContract(t *testing.T, slot Slot) {
	ctx := context.Background()

	t.Run("Get Empty", func(t *testing.T) {
		_, err := slot.Get(ctx)
		assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		value := []byte(`[{"text":"Buy milk","completed":false}]`)
		require.NoError(t, slot.Set(ctx, value), "Set should not return error")

		got, err := slot.Get(ctx)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, string(value), string(got))
	})

	t.Run("Set Replaces", func(t *testing.T) {
		require.NoError(t, slot.Set(ctx, []byte(`[{"text":"a","completed":true},{"text":"b","completed":false}]`)))
		require.NoError(t, slot.Set(ctx, []byte(`[]`)))

		got, err := slot.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got), "Set must fully replace the previous value")
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, slot.Set(ctx, []byte(`[]`)))
		require.NoError(t, slot.Remove(ctx), "Remove should not return error")

		_, err := slot.Get(ctx)
		assert.ErrorIs(t, err, domain.ErrSlotNotFound, "Get after Remove should return ErrSlotNotFound")

		assert.NoError(t, slot.Remove(ctx), "Removing an empty slot should not fail")
	})

	t.Run("Key", func(t *testing.T) {
		assert.NotEmpty(t, slot.Key())
	})
}

// RunTaskStoreContract verifies a TaskStore round-trips lists field-for-field and in order.
// The store must start empty.
func RunTaskStoreContract(t *testing.T, store TaskStore) {
	ctx := context.Background()

	t.Run("Load Missing", func(t *testing.T) {
		tasks, err := store.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPersistenceRead)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("Round Trip", func(t *testing.T) {
		list := domain.TaskList{
			{Text: "Buy milk"},
			{Text: "Walk dog", Completed: true},
			{Text: "Ünïcode ✓"},
		}
		require.NoError(t, store.Save(ctx, list))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, list.Equal(loaded), "expected %v, got %v", list, loaded)
	})

	t.Run("Save Empty", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.TaskList{}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, loaded)
		assert.Empty(t, loaded)
	})
}
