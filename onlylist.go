package onlylist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/adapters/file"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/persistence"
	"github.com/aretw0/onlylist/pkg/persistence/middleware"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/aretw0/onlylist/pkg/tasklist"
)

// ErrNoSlot is returned by Open when no storage slot is given.
var ErrNoSlot = errors.New("onlylist: slot is required")

// List is the high-level entry point: a hydrated Store bound to its storage slot.
type List struct {
	*tasklist.Store

	slot    ports.Slot
	adapter *persistence.Adapter
}

type options struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	clock       ports.Clock
	noticeTTL   time.Duration
	middlewares []middleware.Middleware
}

// Option defines a functional option for Open.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observers. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithClock replaces the scheduler used for notice expiry.
func WithClock(clock ports.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithNoticeTTL sets how long warnings stay visible.
func WithNoticeTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.noticeTTL = ttl
	}
}

// WithMiddleware wraps the slot, outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// Open wraps slot with the configured middleware, builds the Store and hydrates it.
// Unreadable saved data never fails Open; the list then starts empty.
func Open(ctx context.Context, slot ports.Slot, opts ...Option) (*List, error) {
	if slot == nil {
		return nil, ErrNoSlot
	}

	o := &options{
		logger:    logging.NewNop(),
		clock:     ports.SystemClock{},
		noticeTTL: domain.DefaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(o)
	}

	slot = middleware.Chain(slot, o.middlewares...)
	adapter := persistence.New(slot)
	store := tasklist.New(adapter,
		tasklist.WithLogger(o.logger),
		tasklist.WithLifecycleHooks(o.hooks),
		tasklist.WithClock(o.clock),
		tasklist.WithNoticeTTL(o.noticeTTL),
	)
	store.Hydrate(ctx)

	return &List{Store: store, slot: slot, adapter: adapter}, nil
}

// OpenDir opens the list stored as <dir>/tasks.json.
func OpenDir(ctx context.Context, dir string, opts ...Option) (*List, error) {
	return Open(ctx, file.New(dir, "tasks"), opts...)
}

// Slot returns the (wrapped) slot the list persists to.
func (l *List) Slot() ports.Slot {
	return l.slot
}

// Persisted reads the list as currently stored, bypassing memory.
func (l *List) Persisted(ctx context.Context) (domain.TaskList, error) {
	return l.adapter.Load(ctx)
}
