package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/aretw0/onlylist/pkg/tasklist"
)

// DefaultLockTTL bounds how long a crashed process can hold the distributed lock.
const DefaultLockTTL = 30 * time.Second

// Manager orchestrates access to a Store, ensuring one turn at a time.
type Manager struct {
	store *tasklist.Store
	key   string

	mu sync.Mutex

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking. Each turn then starts with a Refresh.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of the distributed lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager for store. key names the list for distributed locking,
// normally the slot key.
func NewManager(store *tasklist.Store, key string, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		key:     key,
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn as one turn.
func (m *Manager) Do(ctx context.Context, fn func(context.Context, *tasklist.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, m.key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", m.key,
					"err", err,
				)
			}
		}()

		if err := m.store.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh tasks: %w", err)
		}
	}

	return fn(ctx, m.store)
}

// View returns a snapshot of the Store taken inside a turn.
func (m *Manager) View(ctx context.Context) (domain.View, error) {
	var v domain.View
	err := m.Do(ctx, func(_ context.Context, s *tasklist.Store) error {
		v = s.View()
		return nil
	})
	return v, err
}

// Store returns the managed Store. Callers outside a turn must not mutate it.
func (m *Manager) Store() *tasklist.Store {
	return m.store
}
