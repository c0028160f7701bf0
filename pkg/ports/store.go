package ports

import (
	"context"

	"github.com/aretw0/armature/pkg/domain"
)

// ProgramStore persists named block programs for the host application.
// The engine itself only ever reads blocks; stores exist so hosts can keep
// a library of programs (memory, Redis, files) behind one interface.
type ProgramStore interface {
	// Save persists the program under its ID, replacing any previous
	// version. Block order must be preserved exactly.
	Save(ctx context.Context, program *domain.Program) error

	// Load retrieves a program by ID. It returns
	// domain.ErrProgramNotFound for unknown ids.
	Load(ctx context.Context, id string) (*domain.Program, error)

	// Delete removes a program. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored programs.
	List(ctx context.Context) ([]string, error)
}
