package engine

import (
	"strings"

	"github.com/loykin/sqlrun/internal/store"
)

// primaryEntityTable is a table that exists only once the application schema
// has been created; probing it distinguishes a fresh store from an existing
// one.
const primaryEntityTable = "user"

// probeSchema reports whether the store already carries the application
// schema. A "no such table" failure on the probe query means the store is
// fresh; any other failure is a fatal connectivity problem.
func probeSchema(st *store.Store) (fresh bool, err error) {
	var n int
	qerr := st.QueryRow(`SELECT COUNT(*) FROM "` + primaryEntityTable + `"`).Scan(&n)
	if qerr == nil {
		return false, nil
	}
	if isMissingTable(qerr) {
		return true, nil
	}
	return false, &ConnectivityError{Err: qerr}
}

// isMissingTable matches the SQLite error class for a relation that does not
// exist. The driver exposes it only through the message text.
func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
