// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Poll cycles per account and poller, with duration and outcome
//   - Items seen in the last successful cycle
//   - Domain events emitted, by kind
//   - Event deliveries per subscriber and outcome
//   - Marketplace API calls per surface and outcome
package metrics
