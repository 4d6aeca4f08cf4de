package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "onlylist:"

// Slot implements ports.Slot using a single Redis string key.
type Slot struct {
	client *backend.Client
	prefix string
	key    string
}

// Ensure Slot implements ports.Slot
var _ ports.Slot = (*Slot)(nil)

type Option func(*Slot)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Slot) {
		s.prefix = prefix
	}
}

// New creates a new Redis slot with options.
func New(address, password string, db int, key string, opts ...Option) *Slot {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, key, opts...)
}

// NewFromClient creates a new Redis slot from an existing client.
func NewFromClient(client *backend.Client, key string, opts ...Option) *Slot {
	if key == "" {
		key = "tasks"
	}
	slot := &Slot{
		client: client,
		prefix: DefaultPrefix,
		key:    key,
	}

	for _, opt := range opts {
		opt(slot)
	}

	return slot
}

// Key returns the slot name (without prefix).
func (s *Slot) Key() string {
	return s.key
}

// RedisKey returns the fully qualified Redis key.
func (s *Slot) RedisKey() string {
	return s.prefix + s.key
}

// Client returns the underlying client, so a Locker can share the connection pool.
func (s *Slot) Client() *backend.Client {
	return s.client
}

// Get retrieves the value from Redis.
func (s *Slot) Get(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.RedisKey()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set replaces the value without expiration.
func (s *Slot) Set(ctx context.Context, value []byte) error {
	if err := s.client.Set(ctx, s.RedisKey(), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Remove deletes the key.
func (s *Slot) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.RedisKey()).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Slot) Close() error {
	return s.client.Close()
}
