package ports

import (
	"context"

	"github.com/aretw0/onlylist/pkg/domain"
)

// Slot is a single named, durable key-value slot.
// Implementations are configured with their key; writes fully replace the previous value.
type Slot interface {
	// Key returns the slot name, used for logging and diagnostics.
	Key() string

	// Get returns the stored value.
	// Returns domain.ErrSlotNotFound if nothing has been stored yet.
	Get(ctx context.Context) ([]byte, error)

	// Set replaces the stored value.
	Set(ctx context.Context, value []byte) error

	// Remove deletes the stored value. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
}

// TaskStore is the Persistence Adapter: it serializes whole task lists to and from a Slot.
type TaskStore interface {
	// Load returns the persisted list.
	// On failure it returns an empty, non-nil list together with a *domain.PersistenceReadError,
	// so callers may ignore the error and still get a usable value.
	Load(ctx context.Context) (domain.TaskList, error)

	// Save fully replaces the persisted list.
	Save(ctx context.Context, tasks domain.TaskList) error
}
