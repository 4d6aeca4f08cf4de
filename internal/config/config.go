// Package config loads onlylist settings from defaults, an optional YAML file, ONLYLIST_*
// environment variables and command-line overrides, in that order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up inside the data directory.
const FileName = "onlylist.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ONLYLIST_"

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageLoam   = "loam"
)

// Config is the fully resolved application configuration.
type Config struct {
	Storage    string        `mapstructure:"storage" yaml:"storage"`
	Dir        string        `mapstructure:"dir" yaml:"dir"`
	Key        string        `mapstructure:"key" yaml:"key"`
	Redis      Redis         `mapstructure:"redis" yaml:"redis"`
	Encryption Encryption    `mapstructure:"encryption" yaml:"encryption"`
	NoticeTTL  time.Duration `mapstructure:"notice_ttl" yaml:"notice_ttl"`
	Log        Log           `mapstructure:"log" yaml:"log"`
	HTTP       HTTP          `mapstructure:"http" yaml:"http"`
	Metrics    bool          `mapstructure:"metrics" yaml:"metrics"`
}

// Redis configures the redis slot and the distributed lock.
type Redis struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
	Lock     bool   `mapstructure:"lock" yaml:"lock"`
}

// Encryption holds base64-encoded AES-256 keys. An empty Key disables encryption.
type Encryption struct {
	Key          string   `mapstructure:"key" yaml:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys" yaml:"fallback_keys"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// HTTP configures the serve command.
type HTTP struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Dir is the data directory; FileName is read from it when Path is empty.
	Dir string
	// Path names an explicit config file, which must exist.
	Path string
	// Environ is the environment as "KEY=value" pairs. Nil means os.Environ().
	Environ []string
	// Overrides are dotted keys ("log.level") set from explicit flags.
	Overrides map[string]any
}

var sections = map[string]bool{"redis": true, "encryption": true, "log": true, "http": true}

// envKeys lists the dotted keys an environment variable may set. Other ONLYLIST_* variables
// are left alone, so unrelated tooling sharing the prefix cannot break loading.
var envKeys = fieldKeys(reflect.TypeOf(Config{}), "")

func fieldKeys(t reflect.Type, prefix string) map[string]bool {
	keys := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := prefix + f.Tag.Get("mapstructure")
		if f.Type.Kind() == reflect.Struct {
			for k := range fieldKeys(f.Type, name+".") {
				keys[k] = true
			}
			continue
		}
		keys[name] = true
	}
	return keys
}

// Defaults returns the built-in settings as a raw map.
func Defaults() map[string]any {
	return map[string]any{
		"storage": StorageFile,
		"dir":     ".onlylist",
		"key":     "tasks",
		"redis": map[string]any{
			"addr":   "localhost:6379",
			"db":     0,
			"prefix": "onlylist:",
			"lock":   false,
		},
		"encryption": map[string]any{},
		"notice_ttl": domain.DefaultNoticeTTL.String(),
		"log": map[string]any{
			"level":  "warn",
			"format": "text",
		},
		"http": map[string]any{
			"addr": "localhost:8080",
		},
		"metrics": false,
	}
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	raw := Defaults()

	dir := opts.Dir
	if dir == "" {
		dir, _ = raw["dir"].(string)
	}

	path, required := opts.Path, true
	if path == "" {
		path, required = filepath.Join(dir, FileName), false
	}
	fileValues, err := readFile(path, required)
	if err != nil {
		return Config{}, err
	}
	merge(raw, fileValues)

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	merge(raw, fromEnv(environ))

	if opts.Dir != "" {
		raw["dir"] = opts.Dir
	}
	for key, value := range opts.Overrides {
		set(raw, key, value)
	}

	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that decoding cannot.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StorageFile, StorageMemory, StorageRedis, StorageLoam:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q (want file, memory, redis or loam)", c.Storage))
	}
	if strings.TrimSpace(c.Key) == "" {
		errs = append(errs, errors.New("key cannot be empty"))
	}
	if c.NoticeTTL <= 0 {
		errs = append(errs, fmt.Errorf("notice_ttl must be positive, got %s", c.NoticeTTL))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format))
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// EncryptionKeys decodes the configured keys. active is nil when encryption is off.
func (c Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if c.Encryption.Key == "" {
		if len(c.Encryption.FallbackKeys) > 0 {
			return nil, nil, errors.New("encryption.fallback_keys set without encryption.key")
		}
		return nil, nil, nil
	}
	active, err = decodeKey("encryption.key", c.Encryption.Key)
	if err != nil {
		return nil, nil, err
	}
	for i, k := range c.Encryption.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("encryption.fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

func readFile(path string, required bool) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return values, nil
}

// fromEnv maps ONLYLIST_<FIELD> and ONLYLIST_<SECTION>_<FIELD> onto known config keys.
func fromEnv(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if section, field, found := strings.Cut(key, "_"); found && sections[section] {
			key = section + "." + field
		}
		if envKeys[key] {
			set(out, key, value)
		}
	}
	return out
}

// set assigns value at a dotted path, creating intermediate maps.
func set(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// merge deep-merges src into dst.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func decode(raw map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
