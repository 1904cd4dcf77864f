package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFiles_SortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"010_add_index.sql",
		"002_seed.sql",
		"001_initial_schema.sql",
		"notes.txt",
		"README_no_version.sql",
		"000_invalid.sql",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("Expected 3 versioned migrations, got %d", len(files))
	}
	for i, want := range []int{1, 2, 10} {
		if files[i].version != want {
			t.Errorf("Position %d: expected version %d, got %d", i, want, files[i].version)
		}
	}
	if files[0].name != "001_initial_schema.sql" {
		t.Errorf("Unexpected first migration: %s", files[0].name)
	}
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	if _, err := migrationFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
