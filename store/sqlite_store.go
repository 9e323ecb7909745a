package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/taskapi/models"
	_ "modernc.org/sqlite"
)

// SQLiteTaskStore implements TaskStore on a single SQLite table. It keeps
// the whole-collection contract: Save replaces every row.
type SQLiteTaskStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteTaskStore opens (or creates) the database at dbPath.
// Pass ":memory:" for a throwaway database.
func NewSQLiteTaskStore(dbPath string) (*SQLiteTaskStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteTaskStore{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Path returns the database path.
func (s *SQLiteTaskStore) Path() string { return s.dbPath }

func (s *SQLiteTaskStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		position INTEGER PRIMARY KEY,       -- insertion order
		id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns every row ordered by insertion position.
func (s *SQLiteTaskStore) Load(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, completed, priority FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query tasks: %w", ErrIO, err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var priority string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &priority); err != nil {
			return nil, fmt.Errorf("%w: scan task row: %w", ErrParse, err)
		}
		t.Priority = models.TaskPriority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tasks: %w", ErrIO, err)
	}
	return tasks, nil
}

// Save replaces all rows inside one transaction.
func (s *SQLiteTaskStore) Save(ctx context.Context, tasks []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("%w: clear tasks: %w", ErrIO, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (position, id, title, description, completed, priority) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", ErrIO, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, t.Description, t.Completed, string(t.Priority)); err != nil {
			return fmt.Errorf("%w: insert task %d: %w", ErrIO, t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrIO, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteTaskStore) Close() error {
	return s.db.Close()
}
