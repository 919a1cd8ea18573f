// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in the internal/store package.
//
// Each store type wraps a store.DBTX, so the same implementation runs
// against *sql.DB and *sql.Tx. Errors coming back from the driver are
// translated into the sentinel errors of the store package before they
// cross the package boundary.
package postgres
