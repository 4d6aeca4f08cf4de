package memory

import (
	"context"
	"sync"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
)

// Slot implements ports.Slot in memory.
// Safe for concurrent use.
type Slot struct {
	key  string
	data []byte
	set  bool
	mu   sync.RWMutex
}

// Ensure Slot implements ports.Slot
var _ ports.Slot = (*Slot)(nil)

// NewSlot creates a new, empty in-memory slot.
func NewSlot(key string) *Slot {
	if key == "" {
		key = "tasks"
	}
	return &Slot{key: key}
}

// Key returns the slot name.
func (s *Slot) Key() string {
	return s.key
}

// Get returns a copy of the stored value.
func (s *Slot) Get(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return nil, domain.ErrSlotNotFound
	}
	// Copy on read so callers can't mutate the stored bytes
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Set stores a copy of value.
func (s *Slot) Set(ctx context.Context, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = copied
	s.set = true
	return nil
}

// Remove clears the slot.
func (s *Slot) Remove(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.set = false
	return nil
}
