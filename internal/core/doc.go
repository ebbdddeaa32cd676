// Package core implements the roster reconciliation engine: it maps a
// loosely-structured spreadsheet extract onto the division → department →
// position hierarchy and classifies every person row as created, updated,
// unchanged or error against the current database state.
//
// The package has no HTTP dependencies and is driven entirely through
// Service. All storage access goes through the Gateway interface so the
// engine can be exercised against an in-memory fake in tests.
package core
