// Package queries contains the read side of the dispatch service.
// Handlers run plain SQL through GORM and return read models shaped for the
// API; they never load aggregates or take locks.
package queries
