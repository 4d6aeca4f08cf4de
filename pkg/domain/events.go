package domain

import (
	"context"
	"time"
)

// Op names a State Store operation.
type Op string

const (
	OpHydrate Op = "hydrate"
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpToggle  Op = "toggle"
	OpClear   Op = "clear"
	OpRefresh Op = "refresh"
)

// ChangeEvent is emitted after a mutation has been committed and persisted.
type ChangeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Op        `json:"op"`
	Index     int       `json:"index"`
	Tasks     TaskList  `json:"tasks"`
}

// RejectEvent is emitted when input fails validation.
type RejectEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Op        Op         `json:"op"`
	Kind      NoticeKind `json:"kind"`
}

// NoticeEvent is emitted when a notice is posted or cleared. Message is empty on clear.
type NoticeEvent struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// LifecycleHooks defines callbacks for renderers and observability.
// OnNotice may be invoked from a timer goroutine.
type LifecycleHooks struct {
	OnChange func(context.Context, *ChangeEvent)
	OnReject func(context.Context, *RejectEvent)
	OnNotice func(*NoticeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnChange: chain2(h.OnChange, other.OnChange),
		OnReject: chain2(h.OnReject, other.OnReject),
		OnNotice: chain1(h.OnNotice, other.OnNotice),
	}
}

func chain2[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chain1[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
