// Package memory provides an in-memory ProgramStore, used for ephemeral
// hosts and as the reference implementation for the store contract.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/armature/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Program
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Program),
	}
}

// Save persists a deep copy so later edits to the caller's program don't
// leak into the store.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	copied := clone(program)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[program.ID] = copied
	return nil
}

// Load retrieves a program by id, returning a copy the caller owns.
func (s *Store) Load(ctx context.Context, id string) (*domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	program, ok := s.data[id]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return clone(program), nil
}

// Delete removes a program.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored program ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func clone(p *domain.Program) *domain.Program {
	out := &domain.Program{ID: p.ID, Name: p.Name}
	out.Blocks = make([]domain.Block, len(p.Blocks))
	for i, b := range p.Blocks {
		copied := b
		if b.Parameters != nil {
			copied.Parameters = make(map[string]any, len(b.Parameters))
			for k, v := range b.Parameters {
				copied.Parameters[k] = v
			}
		}
		out.Blocks[i] = copied
	}
	return out
}
