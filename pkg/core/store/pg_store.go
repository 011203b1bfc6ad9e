package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"valuecase/pkg/core/project"
)

// PgStore keeps each project as a JSONB document keyed by id.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS value_case_projects (
//	  id TEXT PRIMARY KEY,
//	  project_name TEXT,
//	  project_json JSONB NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates the table when it is missing.
func NewPgStore(ctx context.Context, pool *pgxpool.Pool) (*PgStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS value_case_projects (
			id TEXT PRIMARY KEY,
			project_name TEXT,
			project_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create project table: %w", err)
	}
	return &PgStore{pool: pool}, nil
}

func (s *PgStore) List(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, project_json FROM value_case_projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []*project.Project{}
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p, err := DecodeProject(data)
		if err != nil {
			fmt.Printf("[WARNING] Skipping project %s: %v\n", id, err)
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out, nil
}

func (s *PgStore) Get(ctx context.Context, id string) (*project.Project, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT project_json FROM value_case_projects WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return DecodeProject(data)
}

func (s *PgStore) Create(ctx context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	data, err := encodeProject(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO value_case_projects (id, project_name, project_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Setup.ProjectName, data, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", p.ID, err)
	}
	return nil
}

// Save upserts on id; the original created_at is preserved.
func (s *PgStore) Save(ctx context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	data, err := encodeProject(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO value_case_projects (id, project_name, project_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			project_name = EXCLUDED.project_name,
			project_json = EXCLUDED.project_json,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Setup.ProjectName, data, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM value_case_projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close releases the pool.
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}
