// Package redis provides a Redis-backed ProgramStore so multiple host
// instances can share one program library.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/armature/pkg/domain"
)

// Store implements ports.ProgramStore using Redis. Programs are stored as
// JSON values; a companion set tracks the ids for List.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration for stored programs. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "armature:program:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the program as JSON and registers its id in the index.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	data, err := json.Marshal(program)
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(program.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), program.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save program %s: %w", program.ID, err)
	}
	return nil
}

// Load retrieves a program by id.
func (s *Store) Load(ctx context.Context, id string) (*domain.Program, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load program %s: %w", id, err)
	}

	var program domain.Program
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("failed to unmarshal program %s: %w", id, err)
	}
	return &program, nil
}

// Delete removes a program and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	return nil
}

// List returns the ids registered in the index. Ids whose value expired via
// TTL are pruned lazily here.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	if s.ttl == 0 {
		return ids, nil
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			s.client.SRem(ctx, s.indexKey(), id)
			continue
		}
		live = append(live, id)
	}
	return live, nil
}
