// Package database provides PostgreSQL connection pools.
//
// Two components may use PostgreSQL:
//   - the postgres state store: poller state and saved searches
//   - the event journal: an append-only table of published events
//
// Each gets its own pool so a slow journal flush never delays a poll cycle.
package database
