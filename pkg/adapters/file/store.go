// Package file stores programs as YAML documents in a directory, one file
// per program. This is the format the CLI reads and writes.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/schema"
)

const extension = ".yaml"

// Store implements ports.ProgramStore on the local filesystem.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath. If basePath is empty it defaults
// to ".armature/programs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".armature", "programs")
	}
	return &Store{BasePath: basePath}
}

// Save writes the program atomically: temp file in the same directory,
// then rename.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	if program.ID == "" {
		return fmt.Errorf("program id cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure program directory: %w", err)
	}

	data, err := yaml.Marshal(program)
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+program.ID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write program: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return os.Rename(tmpPath, s.path(program.ID))
}

// Load reads and decodes one program file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Program, error) {
	return LoadFile(s.path(id))
}

// Delete removes the program file. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	return nil
}

// List returns the ids of every program file in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read program directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, extension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, extension))
	}
	return ids, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.BasePath, id+extension)
}

// LoadFile parses a single program document from disk. The file is decoded
// to a generic map first and then through the shared schema decoder, so
// files and HTTP uploads accept exactly the same shape.
func LoadFile(path string) (*domain.Program, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, domain.ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml in %s: %w", path, err)
	}

	program, err := schema.DecodeProgram(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}
