// Package notice tracks transient, auto-expiring user warnings.
//
// Each NoticeKind is an independent channel. Posting to a channel cancels its pending expiry and
// schedules a fresh one, and every post carries a generation token so that a timer which was
// already in flight when it was cancelled can never clear a newer notice.
package notice

import (
	"sync"
	"time"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
)

type entry struct {
	message string
	gen     uint64
	timer   ports.Timer
}

// Board holds the current notice of each kind.
// Safe for concurrent use; expiry callbacks run on the clock's goroutine.
type Board struct {
	mu       sync.Mutex
	clock    ports.Clock
	ttl      time.Duration
	entries  map[domain.NoticeKind]*entry
	observer func(*domain.NoticeEvent)
}

// Option configures the Board.
type Option func(*Board)

// WithClock injects the scheduler used for expiry.
func WithClock(clock ports.Clock) Option {
	return func(b *Board) {
		b.clock = clock
	}
}

// WithTTL sets how long a notice stays visible.
func WithTTL(ttl time.Duration) Option {
	return func(b *Board) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithObserver registers a callback invoked after every post and clear.
func WithObserver(fn func(*domain.NoticeEvent)) Option {
	return func(b *Board) {
		b.observer = fn
	}
}

// NewBoard creates a Board using the system clock and domain.DefaultNoticeTTL.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		clock:   ports.SystemClock{},
		ttl:     domain.DefaultNoticeTTL,
		entries: make(map[domain.NoticeKind]*entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TTL returns the display lifetime of a notice.
func (b *Board) TTL() time.Duration {
	return b.ttl
}

// Post sets the notice for kind and restarts its expiry window.
func (b *Board) Post(kind domain.NoticeKind, message string) {
	b.mu.Lock()
	e := b.entry(kind)
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.message = message
	e.timer = b.clock.AfterFunc(b.ttl, func() {
		b.expire(kind, gen)
	})
	b.mu.Unlock()

	b.notify(kind, message)
}

// Get returns the visible notice for kind, or "".
func (b *Board) Get(kind domain.NoticeKind) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[kind]; ok {
		return e.message
	}
	return ""
}

// Dismiss clears the notice for kind immediately.
func (b *Board) Dismiss(kind domain.NoticeKind) {
	b.mu.Lock()
	e, ok := b.entries[kind]
	if !ok || e.message == "" {
		b.mu.Unlock()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.message = ""
	b.mu.Unlock()

	b.notify(kind, "")
}

// Close cancels every pending expiry. Visible notices are left as they are.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.gen++
	}
}

func (b *Board) expire(kind domain.NoticeKind, gen uint64) {
	b.mu.Lock()
	e, ok := b.entries[kind]
	if !ok || e.gen != gen || e.message == "" {
		b.mu.Unlock()
		return
	}
	e.message = ""
	e.timer = nil
	b.mu.Unlock()

	b.notify(kind, "")
}

// entry must be called with b.mu held.
func (b *Board) entry(kind domain.NoticeKind) *entry {
	e, ok := b.entries[kind]
	if !ok {
		e = &entry{}
		b.entries[kind] = e
	}
	return e
}

func (b *Board) notify(kind domain.NoticeKind, message string) {
	if b.observer != nil {
		b.observer(&domain.NoticeEvent{Kind: kind, Message: message})
	}
}
