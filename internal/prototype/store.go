package prototype

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrProjectNotFound a task referenced an unknown project
var ErrProjectNotFound = errors.New("project not found")

const schema = `
CREATE TABLE IF NOT EXISTS project (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS task (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	project_id INTEGER NOT NULL REFERENCES project(id)
);`

// Store sqlx-backed persistence for the prototype
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the SQLite database at path and creates the schema
func NewStore(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed inserts the starter projects and tasks into empty tables
func (s *Store) Seed(ctx context.Context) error {
	var projects int
	if err := s.db.GetContext(ctx, &projects, "SELECT COUNT(*) FROM project"); err != nil {
		return fmt.Errorf("counting projects: %w", err)
	}
	if projects == 0 {
		for _, name := range []string{"Progetto Alpha", "Progetto Beta"} {
			if _, err := s.CreateProject(ctx, Project{Name: name}); err != nil {
				return err
			}
		}
	}

	var tasks int
	if err := s.db.GetContext(ctx, &tasks, "SELECT COUNT(*) FROM task"); err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}
	if tasks == 0 {
		seed := []Task{
			{Title: "Task iniziale", ProjectID: 1},
			{Title: "Secondo Task", ProjectID: 2},
		}
		for _, t := range seed {
			if _, err := s.CreateTask(ctx, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListProjects returns every project in id order
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	projects := []Project{}
	if err := s.db.SelectContext(ctx, &projects, "SELECT id, name FROM project ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// CreateProject inserts p and returns it with its id
func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO project (name) VALUES (?)", p.Name)
	if err != nil {
		return Project{}, fmt.Errorf("creating project: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return Project{}, fmt.Errorf("reading project id: %w", err)
	}
	return p, nil
}

// ListTasks returns every task in id order
func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := s.db.SelectContext(ctx, &tasks, "SELECT id, title, project_id FROM task ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts t after checking its project exists
func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Task{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM project WHERE id = ?", t.ProjectID); err != nil {
		return Task{}, fmt.Errorf("checking project: %w", err)
	}
	if count == 0 {
		return Task{}, ErrProjectNotFound
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO task (title, project_id) VALUES (?, ?)", t.Title, t.ProjectID)
	if err != nil {
		return Task{}, fmt.Errorf("creating task: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return Task{}, fmt.Errorf("reading task id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Task{}, fmt.Errorf("committing task: %w", err)
	}
	return t, nil
}
