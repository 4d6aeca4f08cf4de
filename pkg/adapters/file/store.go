package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
)

// DefaultDir is the directory used when none is configured.
var DefaultDir = ".onlylist"

// Slot implements ports.Slot using the local filesystem.
// The value lives in <Dir>/<key>.json and is replaced atomically on every write.
type Slot struct {
	Dir string
	key string
}

// Ensure Slot implements ports.Slot
var _ ports.Slot = (*Slot)(nil)

// New creates a file Slot. Empty arguments fall back to DefaultDir and "tasks".
func New(dir, key string) *Slot {
	if dir == "" {
		dir = DefaultDir
	}
	if key == "" {
		key = "tasks"
	}
	return &Slot{Dir: dir, key: key}
}

// Key returns the slot name.
func (s *Slot) Key() string {
	return s.key
}

// Path returns the file backing the slot.
func (s *Slot) Path() string {
	return filepath.Join(s.Dir, s.key+".json")
}

// Get reads the slot file.
func (s *Slot) Get(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to read slot file: %w", err)
	}
	return data, nil
}

// Set replaces the slot file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Slot) Set(ctx context.Context, value []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure slot directory: %w", err)
	}

	destPath := s.Path()

	// Same directory keeps the rename on one filesystem
	tmpFile, err := os.CreateTemp(s.Dir, "tmp-"+s.key+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(value); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Windows cannot rename an open file
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	// The Delete+Rename window is acceptable compared to a partially written file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing slot file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Remove deletes the slot file.
func (s *Slot) Remove(ctx context.Context) error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot file: %w", err)
	}
	return nil
}
