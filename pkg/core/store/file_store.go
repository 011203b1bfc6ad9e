package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"valuecase/pkg/core/project"
)

// FileStore keeps one JSON document per project in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the directory when needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(".data", "projects")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// List decodes every project file. Unreadable files are skipped with a warning.
func (s *FileStore) List(ctx context.Context) ([]*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}
	out := []*project.Project{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			fmt.Printf("[WARNING] Skipping project file %s: %v\n", e.Name(), err)
			continue
		}
		p, err := DecodeProject(data)
		if err != nil {
			fmt.Printf("[WARNING] Skipping project file %s: %v\n", e.Name(), err)
			continue
		}
		out = append(out, p)
	}
	newestFirst(out)
	return out, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*project.Project, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read project %s: %w", id, err)
	}
	return DecodeProject(data)
}

// Create writes a new project and refuses to overwrite an existing id.
func (s *FileStore) Create(_ context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	path, err := s.path(p.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project %s already exists", p.ID)
	}
	return s.writeLocked(path, p)
}

// Save overwrites the project's file.
func (s *FileStore) Save(_ context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	path, err := s.path(p.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(path, p)
}

// writeLocked replaces the file through a rename so readers never see a
// partial document.
func (s *FileStore) writeLocked(path string, p *project.Project) error {
	data, err := encodeProject(p)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write project %s: %w", p.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write project %s: %w", p.ID, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
