package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// helper to lay out a migration directory with one script
func writeMigration(t *testing.T, root, name, script string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ScriptFileName), []byte(script), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestListAllOrdersLexicallyAndIgnoresFiles(t *testing.T) {
	root := t.TempDir()
	writeMigration(t, root, "20240215_addcol", "ALTER TABLE t ADD COLUMN y TEXT;")
	writeMigration(t, root, "20240101_init", "CREATE TABLE t(x INT);")
	// lock/metadata files in the root must be ignored
	if err := os.WriteFile(filepath.Join(root, "migration_lock.toml"), []byte("provider = \"sqlite\""), 0o600); err != nil {
		t.Fatalf("write lock file: %v", err)
	}

	s := &Source{Dir: root}
	names, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	want := []string{"20240101_init", "20240215_addcol"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("ListAll = %v, want %v", names, want)
	}
}

func TestListAllMissingRootReturnsErrNotFound(t *testing.T) {
	s := &Source{Dir: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := s.ListAll()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadScript(t *testing.T) {
	root := t.TempDir()
	writeMigration(t, root, "20240101_init", "CREATE TABLE t(x INT);")

	s := &Source{Dir: root}
	script, err := s.ReadScript("20240101_init")
	if err != nil {
		t.Fatalf("ReadScript error: %v", err)
	}
	if script != "CREATE TABLE t(x INT);" {
		t.Fatalf("unexpected script: %q", script)
	}

	if _, err := s.ReadScript("20990101_missing"); err == nil {
		t.Fatalf("expected error for missing migration")
	}
}
