package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"valuecase/pkg/core/project"
)

// sqliteTime is fixed width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps projects in an embedded SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (or creates) valuecase.db inside dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", filepath.Join(dataDir, "valuecase.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	// One writer at a time avoids SQLITE_BUSY under concurrent autosaves.
	conn.SetMaxOpenConns(1)

	if err := initSQLiteTables(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func initSQLiteTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			project_name TEXT NOT NULL DEFAULT '',
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at);
	`)
	return err
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, data FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []*project.Project{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p, err := DecodeProject([]byte(data))
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

func (s *SQLiteStore) Get(ctx context.Context, id string) (*project.Project, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM projects WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return DecodeProject([]byte(data))
}

func (s *SQLiteStore) Create(ctx context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	data, err := encodeProject(p)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO projects (id, project_name, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Setup.ProjectName, string(data), formatSQLiteTime(p.CreatedAt), formatSQLiteTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", p.ID, err)
	}
	return nil
}

// Save upserts on id. created_at is kept from the first insert.
func (s *SQLiteStore) Save(ctx context.Context, p *project.Project) error {
	if err := stampNew(p); err != nil {
		return err
	}
	data, err := encodeProject(p)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO projects (id, project_name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			project_name = excluded.project_name,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		p.ID, p.Setup.ProjectName, string(data), formatSQLiteTime(p.CreatedAt), formatSQLiteTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
