package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/onlylist/pkg/adapters/memory"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlot_Contract(t *testing.T) {
	ports.RunSlotContract(t, memory.NewSlot("tasks"))
}

func TestMemorySlot_Isolation(t *testing.T) {
	slot := memory.NewSlot("")
	ctx := context.Background()
	assert.Equal(t, "tasks", slot.Key())

	value := []byte(`[]`)
	require.NoError(t, slot.Set(ctx, value))
	value[0] = 'X'

	got, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	got[0] = 'Y'
	again, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(again))
}
