// Package api provides the marketplace client used by the pollers.
//
// API surfaces:
//   - Browse (REST/JSON, OAuth application token): saved searches
//   - Trading (XML, user token): identity and My eBay buying lists
//   - Shopping (JSON): authoritative single-item lookup
//   - Analytics (REST/JSON): remote daily quotas, informational only
//
// Every outbound attempt is counted per surface by a UsageTracker.
package api
