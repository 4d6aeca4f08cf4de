package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat(string(rune(b)), 32)))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir(), Environ: []string{}})
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "tasks", cfg.Key)
	assert.Equal(t, 3*time.Second, cfg.NoticeTTL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "onlylist:", cfg.Redis.Prefix)
	assert.False(t, cfg.Metrics)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	yamlData := `
storage: memory
key: groceries
notice_ttl: 5s
log:
  level: info
redis:
  addr: cache:6379
  lock: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yamlData), 0644))

	cfg, err := Load(LoadOptions{
		Dir: dir,
		Environ: []string{
			"ONLYLIST_KEY=chores",
			"ONLYLIST_LOG_LEVEL=debug",
			"ONLYLIST_NOTICE_TTL=1500ms",
			"ONLYLIST_REDIS_DB=2",
			"ONLYLIST_METRICS=true",
			"UNRELATED=1",
		},
		Overrides: map[string]any{"log.level": "error"},
	})
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage, "file beats defaults")
	assert.Equal(t, "chores", cfg.Key, "env beats file")
	assert.Equal(t, "error", cfg.Log.Level, "flags beat env")
	assert.Equal(t, 1500*time.Millisecond, cfg.NoticeTTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Lock)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml"), Environ: []string{}})
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		want    string
	}{
		{"Unknown Storage", []string{"ONLYLIST_STORAGE=s3"}, "unknown storage"},
		{"Bad Duration", []string{"ONLYLIST_NOTICE_TTL=soon"}, "invalid configuration"},
		{"Zero TTL", []string{"ONLYLIST_NOTICE_TTL=0s"}, "notice_ttl must be positive"},
		{"Bad Format", []string{"ONLYLIST_LOG_FORMAT=xml"}, "unknown log format"},
		{"Short Key", []string{"ONLYLIST_ENCRYPTION_KEY=" + base64.StdEncoding.EncodeToString([]byte("short"))}, "32 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Dir: t.TempDir(), Environ: tt.environ})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_IgnoresUnknownEnv(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Dir: t.TempDir(),
		Environ: []string{
			"ONLYLIST_HOME=/opt/onlylist",
			"ONLYLIST_LOG_COLOR=always",
			"ONLYLIST_REDIS=cache",
			"ONLYLIST_STORAGE=memory",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_UnknownFileKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("colour: blue\n"), 0644))

	_, err := Load(LoadOptions{Dir: dir, Environ: []string{}})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestEncryptionKeys(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Dir: t.TempDir(),
		Environ: []string{
			"ONLYLIST_ENCRYPTION_KEY=" + key('a'),
			"ONLYLIST_ENCRYPTION_FALLBACK_KEYS=" + key('b') + "," + key('c'),
		},
	})
	require.NoError(t, err)

	active, fallback, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Equal(t, []byte(strings.Repeat("a", 32)), active)
	require.Len(t, fallback, 2)
	assert.Equal(t, []byte(strings.Repeat("c", 32)), fallback[1])
}

func TestEncryptionKeys_Disabled(t *testing.T) {
	active, fallback, err := Config{}.EncryptionKeys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallback)
}
