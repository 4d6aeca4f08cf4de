package observability_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/onlylist/internal/testutils"
	"github.com/aretw0/onlylist/pkg/adapters/memory"
	"github.com/aretw0/onlylist/pkg/observability"
	"github.com/aretw0/onlylist/pkg/persistence"
	"github.com/aretw0/onlylist/pkg/persistence/middleware"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsStoreActivity(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	slot := middleware.NewInstrumentMiddleware(m, nil)(memory.NewSlot("tasks"))
	store := tasklist.New(persistence.New(slot),
		tasklist.WithClock(testutils.NewFakeClock()),
		tasklist.WithLifecycleHooks(m.Hooks()),
	)
	defer store.Close()

	store.Hydrate(ctx)
	require.NoError(t, store.AddTask(ctx, "A"))
	require.NoError(t, store.AddTask(ctx, "B"))
	require.NoError(t, store.ToggleComplete(ctx, 0))
	_ = store.AddTask(ctx, "")

	expected := `
# HELP onlylist_mutations_total Committed task list mutations
# TYPE onlylist_mutations_total counter
onlylist_mutations_total{op="add"} 2
onlylist_mutations_total{op="toggle"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "onlylist_mutations_total"))

	gauges := `
# HELP onlylist_tasks Tasks in the list after the last change
# TYPE onlylist_tasks gauge
onlylist_tasks 2
# HELP onlylist_tasks_completed Completed tasks in the list after the last change
# TYPE onlylist_tasks_completed gauge
onlylist_tasks_completed 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(gauges), "onlylist_tasks", "onlylist_tasks_completed"))

	count, err := testutil.GatherAndCount(reg, "onlylist_rejections_total", "onlylist_notices_shown_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// hydrate reads once, each mutation writes once
	count, err = testutil.GatherAndCount(reg, "onlylist_slot_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per op")
}

func TestMetrics_SlotErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveSlot("set", 0, errors.New("boom"))
	m.ObserveSlot("set", 0, nil)

	expected := `
# HELP onlylist_slot_errors_total Failed persistence slot operations
# TYPE onlylist_slot_errors_total counter
onlylist_slot_errors_total{op="set"} 1
# HELP onlylist_slot_operations_total Persistence slot operations
# TYPE onlylist_slot_operations_total counter
onlylist_slot_operations_total{op="set"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"onlylist_slot_errors_total", "onlylist_slot_operations_total"))
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotPanics(t, func() { m.ObserveSlot("get", 0, nil) })
}
