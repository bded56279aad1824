package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/loykin/sqlrun/internal/common"
	"github.com/loykin/sqlrun/internal/ledger"
	"github.com/loykin/sqlrun/internal/source"
	"github.com/loykin/sqlrun/internal/sqlsplit"
	"github.com/loykin/sqlrun/internal/store"
)

// Path identifies which schema-convergence route initialization took.
type Path string

const (
	// PathFreshBootstrap rebuilds the full schema from the latest cumulative
	// migration script, without ledger bookkeeping.
	PathFreshBootstrap Path = "fresh-bootstrap"
	// PathIncrementalApply applies only not-yet-recorded migrations in
	// catalog order, recording each in the ledger.
	PathIncrementalApply Path = "incremental-apply"
)

// Applied describes one migration attempted during incremental apply.
type Applied struct {
	Name         string
	EntryID      string
	StepsApplied int
	Err          error
}

// Result reports what initialization did. Errs holds the non-fatal failures
// that were logged and skipped per the best-effort policy; the fatal ones
// are returned from Initialize directly.
type Result struct {
	Path    Path
	Applied []Applied
	Errs    []error
	SeedErr error
}

// Seeder ensures baseline application rows exist once the schema has
// converged.
type Seeder interface {
	Run() error
}

// Engine orchestrates schema probing, bootstrap or incremental migration
// application, and seeding. It exclusively owns the store handle until
// Initialize returns.
type Engine struct {
	Store  *store.Store
	Source *source.Source
	Ledger *ledger.Ledger
	Seeder Seeder
}

// Initialize brings the store to the expected schema and seeds baseline
// data. A returned error is fatal and means startup must abort; non-fatal
// failures (individual migrations or seeding) are collected in the Result.
func (e *Engine) Initialize(ctx context.Context) (*Result, error) {
	logger := common.GetLogger().WithComponent("engine")

	fresh, err := probeSchema(e.Store)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if fresh {
		res.Path = PathFreshBootstrap
		logger.Info("schema absent, running fresh bootstrap")
		if err := e.freshBootstrap(); err != nil {
			return nil, err
		}
	} else {
		res.Path = PathIncrementalApply
		logger.Info("schema present, applying pending migrations")
		if err := e.incrementalApply(ctx, res); err != nil {
			return nil, err
		}
	}

	if e.Seeder != nil {
		if err := e.Seeder.Run(); err != nil {
			serr := &SeedingError{Err: err}
			logger.Warn("default data seeding failed, continuing startup", "error", serr)
			res.SeedErr = serr
		}
	}

	logger.Info("store initialization complete", "path", string(res.Path), "warnings", len(res.Errs))
	return res, nil
}

// freshBootstrap executes the lexically-last migration script in one shot.
// No ledger entry is written for it. Every failure here is fatal: the store
// may be left partially created and startup must abort.
func (e *Engine) freshBootstrap() error {
	logger := common.GetLogger().WithComponent("engine")

	names, err := e.Source.ListAll()
	if err != nil {
		return fmt.Errorf("fresh bootstrap requires a migration catalog: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("fresh bootstrap requires a migration catalog: %w", source.ErrNotFound)
	}

	latest := names[len(names)-1]
	script, err := e.Source.ReadScript(latest)
	if err != nil {
		return &MigrationReadError{Name: latest, Err: err}
	}

	stmts := sqlsplit.Split(script)
	logger.Info("bootstrapping schema from latest migration", "migration", latest, "statements", len(stmts))
	for i, stmt := range stmts {
		if err := e.Store.Exec(stmt); err != nil {
			return &StatementExecutionError{Migration: latest, Statement: i, Err: err}
		}
	}

	// Drop and re-establish the connection so any connection-level schema
	// cache sees the new tables.
	if err := e.Store.Reopen(); err != nil {
		return &ConnectivityError{Err: err}
	}

	// The bootstrap script itself gets no ledger row, but later startups
	// need the table in place.
	if err := e.Ledger.EnsureTable(); err != nil {
		return &ConnectivityError{Err: err}
	}
	logger.Info("fresh bootstrap complete", "migration", latest)
	return nil
}

// incrementalApply diffs the catalog against the ledger and applies each
// pending migration in order. A failure in one migration is recorded and
// logged but does not stop initialization: once a usable schema baseline
// exists, the application is allowed to start in a degraded state.
func (e *Engine) incrementalApply(ctx context.Context, res *Result) error {
	logger := common.GetLogger().WithComponent("engine")

	if err := e.Ledger.EnsureTable(); err != nil {
		return &ConnectivityError{Err: err}
	}

	names, err := e.Source.ListAll()
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			logger.Info("no migration directory, nothing to apply")
			return nil
		}
		return err
	}

	applied := e.Ledger.AppliedNames()
	pending := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := applied[n]; !ok {
			pending = append(pending, n)
		}
	}
	if len(pending) == 0 {
		logger.Info("no pending migrations")
		return nil
	}
	logger.Info("applying pending migrations", "count", len(pending))

	for _, name := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		a := e.applyOne(name)
		res.Applied = append(res.Applied, a)
		if a.Err != nil {
			logger.Warn("migration failed, continuing with startup",
				"migration", name, "steps_applied", a.StepsApplied, "error", a.Err)
			res.Errs = append(res.Errs, a.Err)
		}
	}
	return nil
}

// applyOne runs a single pending migration: begin a ledger entry, execute
// the script's statements sequentially until the first failure, then mark
// the entry finished only if every statement succeeded.
func (e *Engine) applyOne(name string) Applied {
	logger := common.GetLogger().WithComponent("engine").WithMigration(name)

	a := Applied{Name: name}

	script, err := e.Source.ReadScript(name)
	if err != nil {
		a.Err = &MigrationReadError{Name: name, Err: err}
		return a
	}

	entryID, err := e.Ledger.BeginEntry(name, ledger.Checksum(script))
	if err != nil {
		a.Err = err
		return a
	}
	a.EntryID = entryID

	stmts := sqlsplit.Split(script)
	logger.Debug("executing migration", "statements", len(stmts))
	for i, stmt := range stmts {
		if err := e.Store.Exec(stmt); err != nil {
			a.Err = &StatementExecutionError{Migration: name, Statement: i, Err: err}
			// Persist how far we got; the entry stays unfinished.
			if uerr := e.Ledger.UpdateSteps(entryID, a.StepsApplied); uerr != nil {
				logger.Warn("failed to record partial step count", "error", uerr)
			}
			return a
		}
		a.StepsApplied++
	}

	if err := e.Ledger.CompleteEntry(entryID, a.StepsApplied); err != nil {
		a.Err = err
		return a
	}
	logger.Info("migration applied", "steps", a.StepsApplied)
	return a
}
