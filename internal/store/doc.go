// Package store defines the persistence interfaces the application depends
// on, together with the shared error taxonomy and transaction helpers.
//
// Concrete implementations live under internal/platform/postgres. Services
// and handlers depend only on these interfaces, which keeps them testable
// with in-memory fakes.
package store
