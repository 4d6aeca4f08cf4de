// Package loam stores the task list as a Markdown document in a Loam repository.
//
// The document keeps its bookkeeping in frontmatter and the serialized list as the body, so the
// file stays readable and diffable in the user's notes folder:
//
//	---
//	slot: tasks
//	present: true
//	size: 41
//	---
//	[{"text":"Buy milk","completed":false}]
package loam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// DocumentMetadata is the frontmatter of the slot document.
type DocumentMetadata struct {
	Slot    string `mapstructure:"slot"`
	Present bool   `mapstructure:"present"`
	Size    int    `mapstructure:"size"`
}

// Slot implements ports.Slot on top of a Loam repository.
type Slot struct {
	Repo core.Repository
	key  string
}

// Ensure Slot implements ports.Slot
var _ ports.Slot = (*Slot)(nil)

// New wraps an existing repository.
func New(repo core.Repository, key string) *Slot {
	if key == "" {
		key = "tasks"
	}
	return &Slot{Repo: repo, key: key}
}

// Open initializes a Loam repository at dir (without git versioning) and returns a slot on it.
func Open(dir, key string, opts ...loam.Option) (*Slot, error) {
	opts = append([]loam.Option{loam.WithVersioning(false)}, opts...)
	repo, err := loam.Init(dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo, key), nil
}

// Key returns the slot name.
func (s *Slot) Key() string {
	return s.key
}

func (s *Slot) docID() string {
	return s.key + ".md"
}

// Get reads the document body.
func (s *Slot) Get(ctx context.Context) ([]byte, error) {
	doc, err := s.Repo.Get(ctx, s.key)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", s.key, err)
	}

	var meta DocumentMetadata
	if err := decodeMetadata(doc.Metadata, &meta); err != nil {
		return nil, fmt.Errorf("invalid slot metadata in %s: %w", s.key, err)
	}
	if !meta.Present {
		return nil, domain.ErrSlotNotFound
	}

	return []byte(strings.TrimSpace(doc.Content)), nil
}

// Set replaces the document.
func (s *Slot) Set(ctx context.Context, value []byte) error {
	return s.save(ctx, string(value), true)
}

// Remove marks the document empty. The file is kept so Loam watchers see a change
// rather than a disappearance.
func (s *Slot) Remove(ctx context.Context) error {
	return s.save(ctx, "", false)
}

func (s *Slot) save(ctx context.Context, content string, present bool) error {
	err := s.Repo.Save(ctx, core.Document{
		ID:      s.docID(),
		Content: content,
		Metadata: core.Metadata{
			"slot":    s.key,
			"present": present,
			"size":    len(content),
		},
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", s.key, err)
	}
	return nil
}

func decodeMetadata(raw map[string]any, out *DocumentMetadata) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func isNotFound(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
