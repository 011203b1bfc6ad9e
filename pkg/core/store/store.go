// Package store persists business value case projects. Three backends share
// one Repository contract: a JSON file per project (the default), an
// embedded SQLite database and a Postgres JSONB table.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"valuecase/pkg/core/project"
)

var (
	// ErrNotFound is returned when no project has the requested id.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidID is returned when a project is written under an id that
	// cannot double as a file name.
	ErrInvalidID = errors.New("invalid project id")
)

// ValidID reports whether id can be stored by every backend: non-empty, a
// single path element and not starting with a dot.
func ValidID(id string) bool {
	return id != "" && id == filepath.Base(id) && !strings.HasPrefix(id, ".") && !strings.ContainsAny(id, `/\`)
}

// Repository is the project persistence contract. Save is an upsert and
// the last write wins; List returns projects newest first by creation time.
type Repository interface {
	List(ctx context.Context) ([]*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Create(ctx context.Context, p *project.Project) error
	Save(ctx context.Context, p *project.Project) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and locates a backend.
type Config struct {
	Backend     string
	DataDir     string
	DatabaseURL string
}

// ConfigFromEnv reads VALUECASE_STORE, VALUECASE_DATA_DIR and DATABASE_URL.
func ConfigFromEnv() Config {
	cfg := Config{
		Backend:     strings.ToLower(strings.TrimSpace(os.Getenv("VALUECASE_STORE"))),
		DataDir:     os.Getenv("VALUECASE_DATA_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(".data", "projects")
	}
	return cfg
}

// Open builds the configured repository.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.DataDir)
	case BackendSQLite:
		return NewSQLiteStore(cfg.DataDir)
	case BackendPostgres, "postgresql", "pg":
		if err := InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		return NewPgStore(ctx, GetPool())
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Update loads a project, applies fn and saves the result with a fresh
// UpdatedAt. Derived figures are recomputed before saving.
func Update(ctx context.Context, repo Repository, id string, fn func(p *project.Project) error) (*project.Project, error) {
	p, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.ID = id
	p.Recompute()
	p.UpdatedAt = time.Now().UTC()
	if err := repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Duplicate copies a project under a new id and name. Everything else,
// including assumptions and cost items, is carried over.
func Duplicate(ctx context.Context, repo Repository, id, newName string) (*project.Project, error) {
	src, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := src.Clone()
	now := time.Now().UTC()
	dup.ID = uuid.NewString()
	dup.Setup.ProjectName = strings.TrimSpace(newName)
	if dup.Setup.ProjectName == "" {
		dup.Setup.ProjectName = src.Setup.ProjectName + " (copy)"
	}
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if err := repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to duplicate project %s: %w", id, err)
	}
	return dup, nil
}

// =============================================================================
// SHARED ENCODING
// =============================================================================

func encodeProject(p *project.Project) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project %s: %w", p.ID, err)
	}
	return data, nil
}

// DecodeProject parses a stored project record and normalizes it.
func DecodeProject(data []byte) (*project.Project, error) {
	var p project.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	p.Normalize()
	return &p, nil
}

func stampNew(p *project.Project) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if !ValidID(p.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}

func newestFirst(ps []*project.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
