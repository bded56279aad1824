package ledger

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/loykin/sqlrun/internal/common"
	"github.com/loykin/sqlrun/internal/store"
)

// TableName is the migration-history table owned by the ledger.
const TableName = "_migrations"

const createTableSQL = `CREATE TABLE "` + TableName + `" (
	"id" TEXT NOT NULL PRIMARY KEY,
	"checksum" TEXT NOT NULL,
	"finished_at" DATETIME,
	"migration_name" TEXT NOT NULL,
	"logs" TEXT,
	"rolled_back_at" DATETIME,
	"started_at" DATETIME NOT NULL DEFAULT current_timestamp,
	"applied_steps_count" INTEGER NOT NULL DEFAULT 0
)`

// Entry is one row of the migration-history table. A migration counts as
// applied only when FinishedAt is non-null.
type Entry struct {
	ID                string
	Checksum          string
	FinishedAt        *time.Time
	MigrationName     string
	Logs              *string
	RolledBackAt      *time.Time
	StartedAt         time.Time
	AppliedStepsCount int
}

// Ledger persists which migrations have been applied and when.
type Ledger struct {
	store *store.Store
}

func New(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// TableExists reports whether the history table is present, via the
// sqlite_master catalog.
func (l *Ledger) TableExists() (bool, error) {
	var name string
	err := l.store.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query table catalog: %w", err)
	}
	return true, nil
}

// EnsureTable creates the history table if it is absent. The existence check
// goes through the catalog rather than CREATE IF NOT EXISTS so the first
// creation is observable in the logs.
func (l *Ledger) EnsureTable() error {
	logger := common.GetLogger().WithComponent("ledger")

	exists, err := l.TableExists()
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("migration table already exists")
		return nil
	}

	if err := l.store.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	logger.Info("migration table created", "table", TableName)
	return nil
}

// AppliedNames returns the names of finished migrations ordered by
// started_at ascending. A query failure is reported as an empty set:
// callers cannot distinguish "nothing applied" from "ledger unreadable",
// which is a known risk of this contract.
func (l *Ledger) AppliedNames() map[string]struct{} {
	logger := common.GetLogger().WithComponent("ledger")

	rows, err := l.store.Query(
		`SELECT migration_name FROM "` + TableName + `" WHERE finished_at IS NOT NULL ORDER BY started_at ASC`,
	)
	if err != nil {
		logger.Warn("failed to read applied migrations, assuming none", "error", err)
		return map[string]struct{}{}
	}
	defer func() { _ = rows.Close() }()

	applied := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logger.Warn("failed to scan applied migration, assuming none", "error", err)
			return map[string]struct{}{}
		}
		applied[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		logger.Warn("failed to iterate applied migrations, assuming none", "error", err)
		return map[string]struct{}{}
	}
	return applied
}

// BeginEntry records the start of a migration run and returns the generated
// entry id. The row is created with finished_at null and zero applied steps.
func (l *Ledger) BeginEntry(name, checksum string) (string, error) {
	id := newEntryID()
	err := l.store.Exec(
		`INSERT INTO "`+TableName+`" (id, checksum, migration_name, started_at, applied_steps_count) VALUES (?, ?, ?, ?, 0)`,
		id, checksum, name, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert ledger entry for %s: %w", name, err)
	}
	return id, nil
}

// UpdateSteps records the number of successfully executed statements
// without marking the entry finished. Used when a migration fails partway.
func (l *Ledger) UpdateSteps(id string, stepsApplied int) error {
	err := l.store.Exec(
		`UPDATE "`+TableName+`" SET applied_steps_count = ? WHERE id = ?`,
		stepsApplied, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update steps for ledger entry %s: %w", id, err)
	}
	return nil
}

// CompleteEntry marks an entry as finished with the final step count.
func (l *Ledger) CompleteEntry(id string, stepsApplied int) error {
	err := l.store.Exec(
		`UPDATE "`+TableName+`" SET finished_at = ?, applied_steps_count = ? WHERE id = ?`,
		time.Now().UTC(), stepsApplied, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete ledger entry %s: %w", id, err)
	}
	return nil
}

// ListEntries returns all ledger rows ordered by started_at ascending.
func (l *Ledger) ListEntries() ([]Entry, error) {
	rows, err := l.store.Query(
		`SELECT id, checksum, finished_at, migration_name, logs, rolled_back_at, started_at, applied_steps_count FROM "` + TableName + `" ORDER BY started_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finishedAt, rolledBackAt sql.NullTime
		var logs sql.NullString
		if err := rows.Scan(&e.ID, &e.Checksum, &finishedAt, &e.MigrationName, &logs, &rolledBackAt, &e.StartedAt, &e.AppliedStepsCount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if finishedAt.Valid {
			e.FinishedAt = &finishedAt.Time
		}
		if rolledBackAt.Valid {
			e.RolledBackAt = &rolledBackAt.Time
		}
		if logs.Valid {
			e.Logs = &logs.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

// Checksum returns the SHA-256 hex digest of a migration script. It is
// recorded at apply time but not re-verified on later runs.
func Checksum(script string) string {
	sum := sha256.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}

// newEntryID builds a time-prefixed random identifier. Uniqueness beyond the
// primary key constraint relies on the clock plus entropy.
func newEntryID() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return strconv.FormatInt(time.Now().UnixNano(), 10) + hex.EncodeToString(buf[:])
}
