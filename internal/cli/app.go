// Package cli wires configuration into a ready-to-use task list for the commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/onlylist"
	"github.com/aretw0/onlylist/internal/config"
	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/adapters/file"
	loamAdapter "github.com/aretw0/onlylist/pkg/adapters/loam"
	"github.com/aretw0/onlylist/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/onlylist/pkg/adapters/redis"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/observability"
	"github.com/aretw0/onlylist/pkg/persistence/middleware"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/aretw0/onlylist/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// App is a configured, hydrated task list and the services around it.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	List     *onlylist.List
	Sessions *session.Manager

	// Registry is nil unless metrics are enabled.
	Registry *prometheus.Registry

	closers []func() error
}

// Build creates the slot for cfg.Storage, applies encryption and instrumentation, opens the
// list and wraps it in a session manager. hooks are registered with the Store.
func Build(ctx context.Context, cfg config.Config, hooks ...domain.LifecycleHooks) (*App, error) {
	logger, err := logging.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}

	slot, client, err := app.newSlot(cfg)
	if err != nil {
		return nil, err
	}

	var observer middleware.SlotObserver
	opts := []onlylist.Option{
		onlylist.WithLogger(logger),
		onlylist.WithNoticeTTL(cfg.NoticeTTL),
	}
	if cfg.Metrics {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(app.Registry)
		observer = metrics
		opts = append(opts, onlylist.WithLifecycleHooks(metrics.Hooks()))
	}
	for _, h := range hooks {
		opts = append(opts, onlylist.WithLifecycleHooks(h))
	}

	// Instrumentation sits outside encryption so it measures the full cost of a read or write.
	mws := []middleware.Middleware{middleware.NewInstrumentMiddleware(observer, logger)}
	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		app.Close()
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		mws = append(mws, enc)
	}
	opts = append(opts, onlylist.WithMiddleware(mws...))

	list, err := onlylist.Open(ctx, slot, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.List = list
	app.closers = append([]func() error{func() error { list.Close(); return nil }}, app.closers...)

	managerOpts := []session.Option{session.WithLogger(logger)}
	if client != nil && cfg.Redis.Lock {
		managerOpts = append(managerOpts, session.WithLocker(redisAdapter.NewLocker(client, cfg.Redis.Prefix)))
	}
	app.Sessions = session.NewManager(list.Store, cfg.Key, managerOpts...)

	logger.Debug("Task list ready", "storage", cfg.Storage, "key", cfg.Key, "tasks", list.Len())
	return app, nil
}

func (a *App) newSlot(cfg config.Config) (ports.Slot, *backend.Client, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return file.New(cfg.Dir, cfg.Key), nil, nil
	case config.StorageMemory:
		return memory.NewSlot(cfg.Key), nil, nil
	case config.StorageRedis:
		slot := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Key,
			redisAdapter.WithPrefix(cfg.Redis.Prefix))
		a.closers = append(a.closers, slot.Client().Close)
		return slot, slot.Client(), nil
	case config.StorageLoam:
		slot, err := loamAdapter.Open(cfg.Dir, cfg.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open loam repository: %w", err)
		}
		return slot, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// Close stops notice timers and releases connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
