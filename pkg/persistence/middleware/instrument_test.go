package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/onlylist/pkg/adapters/memory"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/persistence/middleware"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	op  string
	err error
}

type recorder struct {
	seen []observation
}

func (r *recorder) ObserveSlot(op string, _ time.Duration, err error) {
	r.seen = append(r.seen, observation{op: op, err: err})
}

type brokenSlot struct {
	ports.Slot
}

func (brokenSlot) Set(context.Context, []byte) error {
	return errors.New("read-only filesystem")
}

func TestInstrumentMiddleware_Observes(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	slot := middleware.NewInstrumentMiddleware(rec, nil)(memory.NewSlot("tasks"))

	_, err := slot.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound, "errors pass through untouched")
	require.NoError(t, slot.Set(ctx, []byte("[]")))
	require.NoError(t, slot.Remove(ctx))

	assert.Equal(t, []observation{{op: "get"}, {op: "set"}, {op: "remove"}}, rec.seen)
}

func TestInstrumentMiddleware_LogsFailures(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rec := &recorder{}

	slot := middleware.NewInstrumentMiddleware(rec, logger)(brokenSlot{memory.NewSlot("tasks")})
	err := slot.Set(ctx, []byte("[]"))

	require.Error(t, err)
	require.Len(t, rec.seen, 1)
	assert.EqualError(t, rec.seen[0].err, "read-only filesystem")
	assert.Contains(t, buf.String(), "Slot operation failed")
	assert.Contains(t, buf.String(), "key=tasks")
}

func TestChain_Order(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	underlying := memory.NewSlot("tasks")
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	slot := middleware.Chain(underlying, middleware.NewInstrumentMiddleware(rec, nil), enc)
	require.NoError(t, slot.Set(ctx, []byte("hello")))

	raw, err := underlying.Get(ctx)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hello")
	assert.Len(t, rec.seen, 1)

	got, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}
