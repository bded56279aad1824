package sqlrun

import (
	"context"
	"fmt"

	"github.com/loykin/sqlrun/internal/engine"
	"github.com/loykin/sqlrun/internal/ledger"
	"github.com/loykin/sqlrun/internal/seed"
	"github.com/loykin/sqlrun/internal/source"
	"github.com/loykin/sqlrun/internal/store"
)

// Re-export commonly used types for public API

// StoreConfig describes the SQLite store location ("file:<path>" DSN).
type StoreConfig = store.Config

// Store is the database handle owned by the engine during initialization.
type Store = store.Store

// Result reports which path initialization took and any non-fatal failures.
type Result = engine.Result

// LedgerEntry is one row of the migration-history table.
type LedgerEntry = ledger.Entry

// Path values identifying the initialization route taken.
const (
	PathFreshBootstrap   = engine.PathFreshBootstrap
	PathIncrementalApply = engine.PathIncrementalApply
)

// Config wires an initialization run: where the store lives and where the
// migration catalog is.
type Config struct {
	Store      StoreConfig
	MigrateDir string
}

// Initialize connects to the store, converges its schema (fresh bootstrap or
// incremental apply) and seeds baseline data. The returned error is fatal;
// per-migration and seeding failures are reported inside Result.
// The store handle stays open for the application and must be closed by the
// caller.
func Initialize(ctx context.Context, cfg Config) (*Store, *Result, error) {
	st := store.New(cfg.Store)
	if err := st.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	catalog, err := seed.DefaultCatalog()
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	eng := &engine.Engine{
		Store:  st,
		Source: &source.Source{Dir: cfg.MigrateDir},
		Ledger: ledger.New(st),
		Seeder: &seed.Seeder{Store: st, Catalog: catalog},
	}
	res, err := eng.Initialize(ctx)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return st, res, nil
}

// OpenStore connects to the store without running initialization. Used by
// read-only commands such as status.
func OpenStore(cfg StoreConfig) (*Store, error) {
	st := store.New(cfg)
	if err := st.Connect(); err != nil {
		return nil, err
	}
	return st, nil
}

// ListLedger returns all migration-history rows ordered by start time.
func ListLedger(st *Store) ([]LedgerEntry, error) {
	return ledger.New(st).ListEntries()
}
