package engine

import "fmt"

// ConnectivityError means the store could not be reached at all. It is
// always fatal and aborts startup.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store connectivity failure: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// MigrationReadError means a migration script could not be read. Fatal
// during bootstrap, a per-migration warning during incremental apply.
type MigrationReadError struct {
	Name string
	Err  error
}

func (e *MigrationReadError) Error() string {
	return fmt.Sprintf("failed to read migration %s: %v", e.Name, e.Err)
}

func (e *MigrationReadError) Unwrap() error { return e.Err }

// StatementExecutionError means one statement of a migration failed.
// Statement is the zero-based index within the split script.
type StatementExecutionError struct {
	Migration string
	Statement int
	Err       error
}

func (e *StatementExecutionError) Error() string {
	return fmt.Sprintf("migration %s: statement %d failed: %v", e.Migration, e.Statement, e.Err)
}

func (e *StatementExecutionError) Unwrap() error { return e.Err }

// SeedingError wraps a failure of the default-data seeding phase. It is
// logged and never fatal.
type SeedingError struct {
	Err error
}

func (e *SeedingError) Error() string {
	return fmt.Sprintf("seeding failed: %v", e.Err)
}

func (e *SeedingError) Unwrap() error { return e.Err }
