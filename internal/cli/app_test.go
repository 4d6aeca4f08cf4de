package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/onlylist/internal/config"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, overrides map[string]any) config.Config {
	t.Helper()
	cfg, err := config.Load(config.LoadOptions{
		Dir:       t.TempDir(),
		Environ:   []string{},
		Overrides: overrides,
	})
	require.NoError(t, err)
	return cfg
}

func build(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func addTask(t *testing.T, app *App, text string) {
	t.Helper()
	require.NoError(t, app.Sessions.Do(context.Background(), func(ctx context.Context, s *tasklist.Store) error {
		return s.AddTask(ctx, text)
	}))
}

func TestBuild_FileStorage(t *testing.T) {
	cfg := loadConfig(t, nil)
	app := build(t, cfg)
	addTask(t, app, "Buy milk")

	data, err := os.ReadFile(filepath.Join(cfg.Dir, "tasks.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"Buy milk","completed":false}]`, string(data))
	assert.Nil(t, app.Registry)

	require.NoError(t, app.Close())
	reopened := build(t, cfg)
	assert.Equal(t, 1, reopened.List.Len())
}

func TestBuild_MemoryWithMetrics(t *testing.T) {
	app := build(t, loadConfig(t, map[string]any{"storage": "memory", "metrics": true}))
	addTask(t, app, "A")

	require.NotNil(t, app.Registry)
	families, err := app.Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["onlylist_mutations_total"])
	assert.True(t, names["onlylist_slot_operations_total"])
	assert.True(t, names["go_goroutines"])
}

func TestBuild_Encrypted(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	cfg := loadConfig(t, map[string]any{"encryption.key": key})
	app := build(t, cfg)
	addTask(t, app, "secret plan")

	data, err := os.ReadFile(filepath.Join(cfg.Dir, "tasks.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret plan")

	persisted, err := app.List.Persisted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret plan", persisted[0].Text)
}

func TestBuild_RedisWithLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadConfig(t, map[string]any{
		"storage":    "redis",
		"redis.addr": mr.Addr(),
		"redis.lock": true,
	})

	a := build(t, cfg)
	b := build(t, cfg)
	addTask(t, a, "from a")
	addTask(t, b, "from b")

	raw, err := mr.Get("onlylist:tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"from a","completed":false},{"text":"from b","completed":false}]`, raw)
}

func TestBuild_Loam(t *testing.T) {
	cfg := loadConfig(t, map[string]any{"storage": "loam"})
	app := build(t, cfg)
	addTask(t, app, "versioned")

	require.NoError(t, app.Close())
	reopened := build(t, cfg)
	assert.True(t, domain.TaskList{{Text: "versioned"}}.Equal(reopened.List.Tasks()))
}

func TestBuild_BadLogLevel(t *testing.T) {
	cfg := loadConfig(t, map[string]any{"log.level": "loud"})
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}
