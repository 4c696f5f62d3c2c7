package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func Test_Store_UpsertAndGet(t *testing.T) {
	s := newTestStore(t)

	task := Task{
		ID:          "TASK-42",
		Title:       "Add rate limiting",
		Description: "Wrap the API handlers with a limiter",
		Assignee:    "dana",
		Status:      "open",
	}
	if err := s.Upsert(task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lookup is case-insensitive, like the sheet it replaces.
	got, err := s.Get("task-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != task.Title || got.Assignee != "dana" {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Error("expected updated_at to be stamped")
	}
}

func Test_Store_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("TASK-404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func Test_Store_Upsert_ReplacesExisting(t *testing.T) {
	s := newTestStore(t)

	if err := s.Upsert(Task{ID: "t1", Title: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(Task{ID: "T1", Title: "second", Status: "done"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "second" || got.Status != "done" {
		t.Errorf("expected last write to win, got %+v", got)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 task, got %d", count)
	}
}

func Test_Store_Upsert_RejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Upsert(Task{Title: "no id"}); err == nil {
		t.Error("expected error for empty task id")
	}
}

func Test_Store_List_OrderedByID(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"t3", "t1", "t2"} {
		if err := s.Upsert(Task{ID: id, Title: "task " + id}); err != nil {
			t.Fatal(err)
		}
	}

	tasks, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"t1", "t2", "t3"} {
		if tasks[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, tasks[i].ID)
		}
	}
}

func Test_Store_ImportCSV(t *testing.T) {
	s := newTestStore(t)
	csvPath := filepath.Join(t.TempDir(), "sheet.csv")
	content := "Task ID,Title,Description,Assignee,Status\n" +
		"T-1,Fix login,Session cookie expires too early,alex,open\n" +
		",missing id row,,,\n" +
		"T-2,Add search,,sam,in progress\n"
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	imported, err := s.ImportCSV(csvPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imported != 2 {
		t.Errorf("expected 2 imported rows, got %d", imported)
	}

	got, err := s.Get("T-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "Session cookie expires too early" {
		t.Errorf("unexpected description: %q", got.Description)
	}
}

func Test_Store_ImportCSV_RequiresIDColumn(t *testing.T) {
	s := newTestStore(t)
	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(csvPath, []byte("Name,Notes\nfoo,bar\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportCSV(csvPath); err == nil {
		t.Error("expected error for csv without id column")
	}
}
