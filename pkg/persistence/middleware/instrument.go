package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
)

// SlotObserver receives the outcome of every slot operation.
type SlotObserver interface {
	ObserveSlot(op string, elapsed time.Duration, err error)
}

type instrumented struct {
	next     ports.Slot
	observer SlotObserver
	logger   *slog.Logger
}

// NewInstrumentMiddleware reports slot operations to observer and logs them at debug level.
// Either argument may be nil.
func NewInstrumentMiddleware(observer SlotObserver, logger *slog.Logger) Middleware {
	return func(next ports.Slot) ports.Slot {
		return &instrumented{next: next, observer: observer, logger: logger}
	}
}

func (m *instrumented) Key() string {
	return m.next.Key()
}

func (m *instrumented) Get(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := m.next.Get(ctx)
	m.record(ctx, "get", start, len(data), err)
	return data, err
}

func (m *instrumented) Set(ctx context.Context, value []byte) error {
	start := time.Now()
	err := m.next.Set(ctx, value)
	m.record(ctx, "set", start, len(value), err)
	return err
}

func (m *instrumented) Remove(ctx context.Context) error {
	start := time.Now()
	err := m.next.Remove(ctx)
	m.record(ctx, "remove", start, 0, err)
	return err
}

func (m *instrumented) record(ctx context.Context, op string, start time.Time, size int, err error) {
	elapsed := time.Since(start)
	// A missing slot is the normal first-run state, not a failure.
	if errors.Is(err, domain.ErrSlotNotFound) {
		err = nil
	}
	if m.observer != nil {
		m.observer.ObserveSlot(op, elapsed, err)
	}
	if m.logger == nil {
		return
	}
	if err != nil {
		m.logger.WarnContext(ctx, "Slot operation failed", "op", op, "key", m.next.Key(), "err", err)
		return
	}
	m.logger.DebugContext(ctx, "Slot operation", "op", op, "key", m.next.Key(), "bytes", size, "elapsed", elapsed)
}
