// Package postgres contains the PostgreSQL implementations of the store
// interfaces defined in internal/store.
//
// All stores operate over the store.DBTX abstraction, so they work with
// either a *sql.DB or an open *sql.Tx. Database errors are normalized
// through MapError into the store package's error taxonomy.
package postgres
