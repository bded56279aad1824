package sqlrun

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/loykin/sqlrun/internal/source"
)

// CreateOptions controls migration scaffolding.
type CreateOptions struct {
	// Name is a human-readable migration name; it is slugified into the
	// directory name.
	Name string
	// Dir is the migration root directory.
	Dir string
}

const migrationTemplate = `-- Write your schema changes below.
-- Statements are separated by ";" and whole-line comments start with "--".
-- Do not embed ";" inside string literals.
`

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// CreateMigration scaffolds a new migration directory named
// "<UTC timestamp>_<slug>" containing an empty migration.sql, and returns
// the path of the created script.
func CreateMigration(opts CreateOptions) (string, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return "", errors.New("migration directory is required")
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "migration"
	}
	slug := strings.Trim(slugRegexp.ReplaceAllString(strings.ToLower(name), "_"), "_")

	dirName := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102150405"), slug)
	dir := filepath.Join(opts.Dir, dirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create migration directory: %w", err)
	}

	path := filepath.Join(dir, source.ScriptFileName)
	if err := os.WriteFile(path, []byte(migrationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("failed to write migration script: %w", err)
	}
	return path, nil
}
