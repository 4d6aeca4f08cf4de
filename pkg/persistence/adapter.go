// Package persistence implements the Persistence Adapter: it serializes the whole task list
// to a single Slot and reads it back.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
)

// Adapter implements ports.TaskStore on top of a ports.Slot.
// The persisted value is a JSON array of {"text", "completed"} objects.
type Adapter struct {
	slot ports.Slot
}

// Ensure Adapter implements TaskStore
var _ ports.TaskStore = (*Adapter)(nil)

// New creates an Adapter over the given slot.
func New(slot ports.Slot) *Adapter {
	return &Adapter{slot: slot}
}

// Slot returns the underlying slot.
func (a *Adapter) Slot() ports.Slot {
	return a.slot
}

// Load reads and decodes the slot. Missing or malformed content yields an empty list
// and a *domain.PersistenceReadError.
func (a *Adapter) Load(ctx context.Context) (domain.TaskList, error) {
	data, err := a.slot.Get(ctx)
	if err != nil {
		return domain.TaskList{}, &domain.PersistenceReadError{Key: a.slot.Key(), Err: err}
	}

	tasks, err := Decode(data)
	if err != nil {
		return domain.TaskList{}, &domain.PersistenceReadError{Key: a.slot.Key(), Err: err}
	}
	return tasks, nil
}

// Save encodes the full list and replaces the slot value.
func (a *Adapter) Save(ctx context.Context, tasks domain.TaskList) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceWrite, err)
	}
	if err := a.slot.Set(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceWrite, err)
	}
	return nil
}

// Encode serializes a list. A nil list encodes as "[]".
func Encode(tasks domain.TaskList) ([]byte, error) {
	if tasks == nil {
		tasks = domain.TaskList{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses a persisted list. A JSON null decodes to an empty list.
// Unknown fields are ignored so hand-edited files with extra keys still load.
// Elements whose text is blank are dropped; the next save rewrites the slot without them.
func Decode(data []byte) (domain.TaskList, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var tasks domain.TaskList
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	kept := make(domain.TaskList, 0, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.Text) != "" {
			kept = append(kept, t)
		}
	}
	return kept, nil
}
