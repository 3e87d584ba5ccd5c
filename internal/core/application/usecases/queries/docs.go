// Package queries holds the read side of the service. Handlers run raw SQL
// against the schema of the requested country and return read models shaped
// for the HTTP API; they never load aggregates.
package queries
