package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScriptFileName is the single script file expected inside every migration
// directory.
const ScriptFileName = "migration.sql"

// ErrNotFound indicates the migration root directory does not exist. During
// incremental apply callers treat it as "nothing to do"; during a fresh
// bootstrap it is fatal.
var ErrNotFound = errors.New("migration directory not found")

// Source reads the migration catalog from a directory tree: one subdirectory
// per migration, named so lexical order equals application order.
type Source struct {
	Dir string
}

// ListAll returns the migration names in lexical ascending order.
// Non-directory entries (lock or metadata files) are ignored.
func (s *Source) ListAll() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Dir)
		}
		return nil, fmt.Errorf("failed to read migration directory %s: %w", s.Dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadScript returns the raw SQL text of the named migration.
func (s *Source) ReadScript(name string) (string, error) {
	path := filepath.Clean(filepath.Join(s.Dir, name, ScriptFileName))
	// #nosec G304 -- path comes from controlled directory listing of migration dirs
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read migration script %s: %w", name, err)
	}
	return string(b), nil
}
