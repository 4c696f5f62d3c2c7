// Package tasks implements the task source the onboarding tools draw
// from: a SQLite-backed store of task rows, typically populated from a
// CSV export of the team's task sheet. The indexing core has no
// dependency on this package.
package tasks

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no task matches the requested id.
var ErrNotFound = errors.New("task not found")

// Task is one row of the task sheet.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updated_at"`
}

// Store is a SQLite-backed task store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	assignee    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL
);
`

// Open opens (creating if needed) the task database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening task db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing task schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces a task row. Task ids are matched
// case-insensitively, mirroring the sheet lookup behavior.
func (s *Store) Upsert(task Task) error {
	id := strings.TrimSpace(strings.ToLower(task.ID))
	if id == "" {
		return fmt.Errorf("task id must not be empty")
	}
	_, err := s.db.Exec(`
		INSERT INTO tasks (id, title, description, assignee, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			assignee = excluded.assignee,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		id,
		strings.TrimSpace(task.Title),
		strings.TrimSpace(task.Description),
		strings.TrimSpace(task.Assignee),
		strings.TrimSpace(task.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting task %s: %w", id, err)
	}
	return nil
}

// Get returns the task with the given id (case-insensitive) or
// ErrNotFound.
func (s *Store) Get(id string) (*Task, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, assignee, status, updated_at
		FROM tasks WHERE id = ?`,
		strings.TrimSpace(strings.ToLower(id)),
	)
	var task Task
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Assignee, &task.Status, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading task %s: %w", id, err)
	}
	return &task, nil
}

// List returns all tasks ordered by id.
func (s *Store) List() ([]Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, assignee, status, updated_at
		FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Assignee, &task.Status, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Count returns the number of stored tasks.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// ImportCSV loads tasks from a CSV sheet export. The first row must be
// a header; column names are matched loosely ("Task ID", "task_id" and
// "id" all work). Rows without an id are skipped. Returns the number of
// imported rows.
func (s *Store) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening csv %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // sheets often export ragged rows

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}
	idCol, ok := findColumn(columns, "task_id", "taskid", "id")
	if !ok {
		return 0, fmt.Errorf("csv has no task id column (header: %v)", header)
	}
	titleCol, _ := findColumn(columns, "title", "task")
	descCol, _ := findColumn(columns, "description", "details")
	assigneeCol, _ := findColumn(columns, "assignee", "owner")
	statusCol, _ := findColumn(columns, "status")

	imported := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("reading csv row: %w", err)
		}
		id := field(row, idCol)
		if id == "" {
			continue
		}
		task := Task{
			ID:          id,
			Title:       field(row, titleCol),
			Description: field(row, descCol),
			Assignee:    field(row, assigneeCol),
			Status:      field(row, statusCol),
		}
		if err := s.Upsert(task); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// normalizeHeader lowercases a header cell and collapses spaces to
// underscores, matching how the original sheet export names columns.
func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func findColumn(columns map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, ok := columns[name]; ok {
			return i, true
		}
	}
	return -1, false
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
