// Package sink delivers domain events to places outside the process.
//
// Sinks:
//   - Log: structured log line per event (synchronous)
//   - Kafka: JSON messages keyed by account
//   - Telegram: one chat message per selected event kind
//   - Journal: append-only PostgreSQL table
//
// The network sinks buffer events and write them in batches from a
// background goroutine, so a slow destination never stalls a poll cycle.
// A full buffer rejects new events rather than blocking.
package sink
